package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestNewGeminiClientRequiresKeyAndModel(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{Model: "m"})
	require.Error(t, err)
	_, err = NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k"})
	require.Error(t, err)
}

func TestNewLimiterDisabledForZeroRPS(t *testing.T) {
	disabled := newLimiter(0, 5)
	assert.Nil(t, disabled)
	assert.NoError(t, disabled.Wait(context.Background()))

	l := newLimiter(2, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.rl.Burst())
}

func TestLimiterWaitHonoursContext(t *testing.T) {
	l := newLimiter(0.001, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}

func TestConfigSetsSchemaOnlyForObjects(t *testing.T) {
	g := &GeminiClient{model: "m"}
	schema := &genai.Schema{Type: genai.TypeObject}
	req := Request{System: "be strict", Prompt: "p", Schema: schema}

	text := g.config(req, false)
	assert.Empty(t, text.ResponseMIMEType)
	assert.Nil(t, text.ResponseSchema)
	require.NotNil(t, text.SystemInstruction)

	obj := g.config(req, true)
	assert.Equal(t, "application/json", obj.ResponseMIMEType)
	assert.Same(t, schema, obj.ResponseSchema)
}

func TestFakeClientRecordsRequests(t *testing.T) {
	f := NewFakeClient(`["Q1"]`, []byte(`{"a":1}`))
	txt, err := f.GenerateText(context.Background(), Request{Prompt: "one"})
	require.NoError(t, err)
	assert.Equal(t, `["Q1"]`, txt)

	obj, err := f.GenerateObject(context.Background(), Request{Prompt: "two"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(obj))

	reqs := f.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "one", reqs[0].Prompt)
	assert.Equal(t, "two", reqs[1].Prompt)
}
