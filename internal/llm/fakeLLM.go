package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeClient returns canned responses and records every request, for
// offline runs and tests.
type FakeClient struct {
	mu       sync.Mutex
	Text     string
	Object   json.RawMessage
	Err      error
	requests []Request
}

func NewFakeClient(text string, object json.RawMessage) *FakeClient {
	return &FakeClient{Text: text, Object: object}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *FakeClient) GenerateObject(_ context.Context, req Request) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return append(json.RawMessage(nil), f.Object...), nil
}

// Requests returns a copy of the recorded requests.
func (f *FakeClient) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}
