package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"prepwise/internal/logging"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	// RPS <= 0 disables throttling.
	RPS   float64
	Burst int
}

// GeminiClient is a thin wrapper around the official genai client.
// Calls are made once; failures are returned to the caller as-is.
type GeminiClient struct {
	cli   *genai.Client
	model string
	rl    *limiter
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model, rl: newLimiter(cfg.RPS, cfg.Burst)}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) GenerateText(ctx context.Context, req Request) (string, error) {
	resp, err := g.generate(ctx, req, g.config(req, false))
	if err != nil {
		return "", err
	}
	return resp, nil
}

// GenerateObject requests application/json output validated against req.Schema.
func (g *GeminiClient) GenerateObject(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("llm: schema is required for object generation")
	}
	txt, err := g.generate(ctx, req, g.config(req, true))
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(txt)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("llm: model returned invalid JSON")
	}
	return raw, nil
}

func (g *GeminiClient) config(req Request, object bool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if s := strings.TrimSpace(req.System); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	if object {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	return cfg
}

func (g *GeminiClient) generate(ctx context.Context, req Request, cfg *genai.GenerateContentConfig) (string, error) {
	log := logging.Logger(ctx).With(zap.String("model", g.model))
	if err := g.rl.Wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		log.Warn("generation failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := resp.Text()
	log.Debug("generation done",
		zap.Int("prompt_bytes", len(req.Prompt)),
		zap.Int("response_bytes", len(txt)),
		zap.Duration("elapsed", time.Since(start)))
	if strings.TrimSpace(txt) == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}
