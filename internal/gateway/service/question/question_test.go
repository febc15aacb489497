package question

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise/internal/gateway/entity"
	interviewrepo "prepwise/internal/gateway/repository/interview"
	"prepwise/internal/llm"
)

func TestAmountAcceptsNumberOrString(t *testing.T) {
	var p Params
	require.NoError(t, json.Unmarshal([]byte(`{"amount":5}`), &p))
	assert.Equal(t, Amount(5), p.Amount)
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7"}`), &p))
	assert.Equal(t, Amount(7), p.Amount)
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"many"}`), &p))
}

func TestBuildPromptEmbedsParams(t *testing.T) {
	prompt := BuildPrompt(Params{Type: "Technical", Role: "Backend", Level: "Senior", Techstack: "Go,Postgres", Amount: 3})
	for _, want := range []string{"Backend", "Senior", "Go,Postgres", "Technical", "is: 3.", `["Question 1", "Question 2", "Question 3"]`} {
		assert.Contains(t, prompt, want)
	}
}

func TestParseQuestions(t *testing.T) {
	qs, err := ParseQuestions(" [\"Q1\",\"Q2\"]\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, qs)

	for _, bad := range []string{"Q1, Q2", "```json\n[\"Q1\"]\n```", `{"q":"Q1"}`, `[1,2]`, "null"} {
		_, err := ParseQuestions(bad)
		assert.ErrorIs(t, err, ErrMalformedQuestions, bad)
	}
}

func newService(text string) (*Service, *interviewrepo.MemoryStore, *llm.FakeClient) {
	store := interviewrepo.NewMemoryStore()
	fake := llm.NewFakeClient(text, nil)
	svc := New(fake, store)
	svc.cover = func() string { return "/covers/adobe.png" }
	return svc, store, fake
}

func TestGenerateStoresFinalizedInterview(t *testing.T) {
	ctx := context.Background()
	svc, store, fake := newService(`["Q1","Q2","Q3"]`)

	iv, err := svc.Generate(ctx, Params{Type: "Mixed", Role: "Frontend", Level: "Junior", Techstack: "React, TypeScript,", Amount: 3, UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, iv.ID)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, iv.Questions)
	assert.True(t, iv.Finalized)
	assert.Equal(t, []string{"React", "TypeScript"}, iv.Techstack)
	assert.Equal(t, entity.UserID("u1"), iv.UserID)
	assert.Equal(t, "/covers/adobe.png", iv.CoverImage)

	got, err := store.Get(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, iv.Questions, got.Questions)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, strings.Contains(reqs[0].Prompt, "Frontend"))
}

func TestGenerateMalformedWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService("Q1, Q2")

	_, err := svc.Generate(ctx, Params{UserID: "u1", Amount: 2})
	require.ErrorIs(t, err, ErrMalformedQuestions)

	mine, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	svc, store, fake := newService("")
	fake.Err = errors.New("quota exceeded")

	_, err := svc.Generate(context.Background(), Params{UserID: "u1"})
	require.Error(t, err)
	mine, _ := store.ListByUser(context.Background(), "u1")
	assert.Empty(t, mine)
}
