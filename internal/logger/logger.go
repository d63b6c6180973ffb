// Package logger wraps zap behind a small package-level API so callers do
// not carry logger plumbing through every constructor.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the global logger. format "console" enables the development
// encoder; anything else uses production JSON.
func Init(level, format string) {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stdout"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// S exposes the underlying SugaredLogger for structured call sites.
func S() *zap.SugaredLogger { return sugar }

func Info(msg string)                             { sugar.Info(msg) }
func Infof(template string, args ...interface{})  { sugar.Infof(template, args...) }
func Infow(msg string, kv ...interface{})         { sugar.Infow(msg, kv...) }
func Warnf(template string, args ...interface{})  { sugar.Warnf(template, args...) }
func Warnw(msg string, kv ...interface{})         { sugar.Warnw(msg, kv...) }
func Errorf(template string, args ...interface{}) { sugar.Errorf(template, args...) }
func Errorw(msg string, kv ...interface{})        { sugar.Errorw(msg, kv...) }
func Fatalf(template string, args ...interface{}) { sugar.Fatalf(template, args...) }

// Sync flushes buffered entries. Call before exit.
func Sync() { _ = sugar.Sync() }
