package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/infra/ai/prompt"
)

const maxTokens = 2048

// Options configures the analyzer client. Retries and the per-call timeout
// live here, on the collaborator, not in the orchestrators.
type Options struct {
	APIKey         string
	Model          string
	Timeout        time.Duration
	Retries        int
	MaxWorkers     int
	CostPer1KCents int64
}

type Client struct {
	api  *openai.Client
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	return &Client{api: openai.NewClient(opts.APIKey), opts: opts}
}

// AnalyzeResponse runs one chat completion for a response/question pair.
// Retries with backoff up to the configured count, 45s timeout per call.
func (c *Client) AnalyzeResponse(ctx context.Context, item analysis.Item) (*analysis.Result, error) {
	start := time.Now()

	var content string
	var usage openai.Usage
	var err error
	for attempt := 0; ; attempt++ {
		content, usage, err = c.complete(ctx, item)
		if err == nil || attempt >= c.opts.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	result, err := parsePayload(content, item)
	if err != nil {
		return nil, err
	}
	result.Metadata = analysis.Metadata{
		Model:            c.opts.Model,
		TokensUsed:       usage.TotalTokens,
		CostCents:        c.cost(usage.TotalTokens),
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		AnalyzedAt:       time.Now().UTC(),
	}
	return result, nil
}

// AnalyzeBatch fans the items out over a bounded worker pool when Parallel
// is set, one completion per item. Result order follows completion order,
// not input order.
func (c *Client) AnalyzeBatch(ctx context.Context, req analysis.BatchRequest) (*analysis.BatchOutput, error) {
	start := time.Now()

	workers := 1
	if req.Parallel {
		workers = c.opts.MaxWorkers
	}
	outcomes := runBatch(ctx, req.Items, workers, c.AnalyzeResponse)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &analysis.BatchOutput{}
	for _, o := range outcomes {
		out.Summary.TotalProcessed++
		if o.err != nil {
			out.Summary.Failed++
			out.Errors = append(out.Errors, analysis.ItemError{
				ResponseID: o.item.ResponseID,
				QuestionID: o.item.QuestionID,
				Message:    o.err.Error(),
			})
			continue
		}
		out.Summary.Successful++
		out.Summary.TotalTokensUsed += o.result.Metadata.TokensUsed
		out.Summary.TotalCostCents += o.result.Metadata.CostCents
		out.Results = append(out.Results, o.result)
	}
	out.Summary.ProcessingTimeMS = time.Since(start).Milliseconds()
	return out, nil
}

// Health lists the configured model as a cheap reachability probe.
func (c *Client) Health(ctx context.Context) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	if _, err := c.api.GetModel(ctx, c.opts.Model); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (c *Client) Config() analysis.ClientConfig {
	return analysis.ClientConfig{
		Model:      c.opts.Model,
		Timeout:    c.opts.Timeout,
		Retries:    c.opts.Retries,
		MaxWorkers: c.opts.MaxWorkers,
	}
}

func (c *Client) complete(ctx context.Context, item analysis.Item) (string, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.opts.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User(item)},
		},
	}
	// reasoning models reject MaxTokens in favor of MaxCompletionTokens
	if isReasoningModel(c.opts.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openai.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", resp.Usage, fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, resp.Usage, nil
}

func (c *Client) cost(tokens int) int64 {
	if c.opts.CostPer1KCents <= 0 {
		return 0
	}
	return (int64(tokens)*c.opts.CostPer1KCents + 999) / 1000
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func backoff(attempt int) time.Duration {
	d := 500 * time.Millisecond << uint(attempt)
	if d > 8*time.Second {
		d = 8 * time.Second
	}
	return d
}

// parsePayload maps the model's JSON onto the domain result. An invalid
// primary label falls back to the expected force when one was given.
func parsePayload(content string, item analysis.Item) (*analysis.Result, error) {
	var p prompt.Payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("malformed analyzer output: %w", err)
	}

	primary, err := analysis.ParseForce(p.PrimaryJTBDForce)
	if err != nil {
		if item.ExpectedForce == "" {
			return nil, fmt.Errorf("analyzer returned unknown force %q", p.PrimaryJTBDForce)
		}
		primary = item.ExpectedForce
	}

	var secondary []analysis.Force
	// the expected label always wins the primary slot; when the model
	// disagrees its label is demoted to a secondary force
	if item.ExpectedForce != "" && primary != item.ExpectedForce {
		secondary = append(secondary, primary)
		primary = item.ExpectedForce
	}
	for _, s := range p.SecondaryForces {
		if f, err := analysis.ParseForce(s); err == nil && f != primary && !containsForce(secondary, f) {
			secondary = append(secondary, f)
		}
	}

	return &analysis.Result{
		ResponseID:           item.ResponseID,
		QuestionID:           item.QuestionID,
		PrimaryJTBDForce:     primary,
		SecondaryForces:      secondary,
		ForceStrength:        clampInt(p.ForceStrength, 1, 10),
		ConfidenceScore:      clampFloat(p.ConfidenceScore, 0, 1),
		Reasoning:            p.Reasoning,
		KeyThemes:            p.KeyThemes,
		SentimentAnalysis:    analysis.Sentiment{Overall: p.Sentiment.Overall, Score: clampFloat(p.Sentiment.Score, -1, 1)},
		BusinessImplications: p.BusinessImplications,
		ActionableInsights:   p.ActionableInsights,
		Quality: analysis.QualityIndicators{
			ResponseQuality:    p.Quality.ResponseQuality,
			SpecificityLevel:   p.Quality.SpecificityLevel,
			ActionabilityScore: clampFloat(p.Quality.ActionabilityScore, 0, 1),
		},
	}, nil
}

func containsForce(fs []analysis.Force, f analysis.Force) bool {
	for _, v := range fs {
		if v == f {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
