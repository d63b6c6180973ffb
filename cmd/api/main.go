package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haekalrfd/readiness-ai/internal/application"
	appanalysis "github.com/haekalrfd/readiness-ai/internal/application/analysis"
	"github.com/haekalrfd/readiness-ai/internal/config"
	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
	"github.com/haekalrfd/readiness-ai/internal/domain/surveys"
	aiopenai "github.com/haekalrfd/readiness-ai/internal/infra/ai/openai"
	mysqlp "github.com/haekalrfd/readiness-ai/internal/infra/db/mysql"
	postgresp "github.com/haekalrfd/readiness-ai/internal/infra/db/postgres"
	"github.com/haekalrfd/readiness-ai/internal/infra/httpserver"
	minioStore "github.com/haekalrfd/readiness-ai/internal/infra/storage"
	"github.com/haekalrfd/readiness-ai/internal/logger"
	"github.com/haekalrfd/readiness-ai/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	logger.Init("", "")
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("config load error: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	ctx := context.Background()

	var (
		responses surveys.Repository
		results   domain.Repository
		batchLogs domain.BatchLogRepository
		users     identity.Repository
	)
	var dbPinger *middleware.DatabaseHealthChecker

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		responses = postgresp.NewResponseRepository(db)
		results = postgresp.NewAnalysisRepository(db)
		batchLogs = postgresp.NewBatchLogRepository(db)
		users = postgresp.NewUserRepository(db)
		dbPinger = &middleware.DatabaseHealthChecker{DB: db}
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		responses = mysqlp.NewResponseRepository(db)
		results = mysqlp.NewAnalysisRepository(db)
		batchLogs = mysqlp.NewBatchLogRepository(db)
		users = mysqlp.NewUserRepository(db)
		dbPinger = &middleware.DatabaseHealthChecker{DB: db}
	}

	client := aiopenai.NewClient(aiopenai.Options{
		APIKey:         cfg.OpenAI.APIKey,
		Model:          cfg.OpenAI.Model,
		Timeout:        cfg.OpenAITimeout(),
		Retries:        cfg.OpenAI.Retries,
		MaxWorkers:     cfg.OpenAI.MaxWorkers,
		CostPer1KCents: cfg.OpenAI.CostPer1KCents,
	})

	var reports domain.ReportArchive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatalf("minio init error: %v", err)
		}
		reports = store
	}

	svc := &appanalysis.Service{
		Responses: responses,
		Results:   results,
		BatchLogs: batchLogs,
		Client:    client,
		Reports:   reports,
		Clock:     application.SystemClock{},
	}

	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpireHours)

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Tokens:            tokens,
		Users:             users,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RateLimitCapacity: cfg.RateLimit.Capacity,
		RateLimitRefill:   cfg.RateLimit.RefillRate,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": dbPinger,
			"analyzer": &middleware.AnalyzerHealthChecker{Client: client},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Infof("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}
