package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("llm: empty response from model")

// Request is one generation call. Schema is only consulted by GenerateObject.
type Request struct {
	System string
	Prompt string
	Schema *genai.Schema
}

// Client is the hosted generation service.
type Client interface {
	Name() string
	// GenerateText returns free-form text.
	GenerateText(ctx context.Context, req Request) (string, error)
	// GenerateObject returns JSON constrained to req.Schema.
	GenerateObject(ctx context.Context, req Request) (json.RawMessage, error)
	Close() error
}
