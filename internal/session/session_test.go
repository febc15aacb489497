package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepwise/internal/gateway/entity"
	feedbacksvc "prepwise/internal/gateway/service/feedback"
	"prepwise/internal/voice"
)

type fakeAgent struct {
	mu       sync.Mutex
	events   chan voice.Event
	started  []voice.StartRequest
	stops    int
	startErr error
}

func newFakeAgent() *fakeAgent { return &fakeAgent{events: make(chan voice.Event, 32)} }

func (a *fakeAgent) Start(_ context.Context, req voice.StartRequest) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = append(a.started, req)
	return a.startErr
}

func (a *fakeAgent) Stop(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
	return nil
}

func (a *fakeAgent) Events() <-chan voice.Event { return a.events }

func (a *fakeAgent) say(role voice.Role, typ voice.TranscriptType, text string) {
	a.events <- voice.Event{Kind: voice.EventMessage, Message: voice.TranscriptMessage{Role: role, TranscriptType: typ, Transcript: text}}
}

type fakeFeedback struct {
	mu     sync.Mutex
	params []feedbacksvc.Params
	err    error
}

func (f *fakeFeedback) Create(_ context.Context, p feedbacksvc.Params) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	if f.err != nil {
		return "", f.err
	}
	return "fb-1", nil
}

func interviewConfig() Config {
	return Config{Mode: ModeInterview, UserID: "u1", InterviewID: "iv1", Questions: []string{"Q1", "Q2"}}
}

func TestInterviewSessionProducesFeedback(t *testing.T) {
	ctx := context.Background()
	agent := newFakeAgent()
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	require.NoError(t, err)
	assert.Equal(t, StateInactive, o.State())

	require.NoError(t, o.Start(ctx))
	assert.Equal(t, StateConnecting, o.State())
	require.ErrorIs(t, o.Start(ctx), ErrAlreadyStarted)

	require.Len(t, agent.started, 1)
	assert.NotNil(t, agent.started[0].Assistant)
	assert.Equal(t, "- Q1\n- Q2", agent.started[0].VariableValues["questions"])

	agent.events <- voice.Event{Kind: voice.EventCallStart}
	agent.say(voice.RoleAssistant, voice.TranscriptPartial, "H")
	agent.say(voice.RoleAssistant, voice.TranscriptFinal, "Hi")
	agent.events <- voice.Event{Kind: voice.EventMessage, Message: voice.FunctionCallMessage{FunctionCall: voice.FunctionCall{Name: "noop"}}}
	agent.say(voice.RoleUser, voice.TranscriptFinal, "Hello")
	agent.events <- voice.Event{Kind: voice.EventCallEnd}

	out := o.Run(ctx)
	assert.Equal(t, Outcome{State: StateFinished, Redirect: "/interview/iv1/feedback", FeedbackID: "fb-1"}, out)
	assert.Equal(t, StateFinished, o.State())

	require.Len(t, fb.params, 1)
	assert.Equal(t, []entity.TranscriptTurn{{Role: "assistant", Content: "Hi"}, {Role: "user", Content: "Hello"}}, fb.params[0].Transcript)
	assert.Equal(t, "iv1", fb.params[0].InterviewID)
	assert.Empty(t, o.Transcript())
}

func TestCallStartMovesToActive(t *testing.T) {
	agent := newFakeAgent()
	o, err := New(interviewConfig(), agent, &fakeFeedback{})
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	o.handle(zapNop(), voice.Event{Kind: voice.EventCallStart})
	assert.Equal(t, StateActive, o.State())
	o.handle(zapNop(), voice.Event{Kind: voice.EventSpeechStart})
	o.handle(zapNop(), voice.Event{Kind: voice.EventSpeechEnd})
	assert.Equal(t, StateActive, o.State())
}

func TestStopRequestFromPageEndsCall(t *testing.T) {
	agent := newFakeAgent()
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	agent.events <- voice.Event{Kind: voice.EventCallStart}
	agent.say(voice.RoleUser, voice.TranscriptFinal, "I am done")
	agent.events <- voice.Event{Kind: voice.EventStopRequested}

	out := o.Run(context.Background())
	if out.Redirect != "/interview/iv1/feedback" {
		t.Fatalf("redirect = %q", out.Redirect)
	}
	if agent.stops != 1 {
		t.Fatalf("agent stops = %d, want 1", agent.stops)
	}
	if len(fb.params) != 1 || len(fb.params[0].Transcript) != 1 {
		t.Fatalf("feedback params = %+v", fb.params)
	}
}

func TestFeedbackFailureRedirectsHome(t *testing.T) {
	agent := newFakeAgent()
	o, err := New(interviewConfig(), agent, &fakeFeedback{err: errors.New("model down")})
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	agent.events <- voice.Event{Kind: voice.EventCallEnd}

	out := o.Run(context.Background())
	assert.Equal(t, "/", out.Redirect)
	assert.Empty(t, out.FeedbackID)
}

func TestAgentErrorEndsCall(t *testing.T) {
	agent := newFakeAgent()
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))
	agent.events <- voice.Event{Kind: voice.EventCallStart}
	agent.say(voice.RoleUser, voice.TranscriptFinal, "Hello")
	agent.events <- voice.Event{Kind: voice.EventError, Err: errors.New("dropped")}

	out := o.Run(context.Background())
	assert.Equal(t, StateFinished, out.State)
	require.Len(t, fb.params, 1)
	assert.Len(t, fb.params[0].Transcript, 1)
}

func TestGenerateModeSkipsFeedback(t *testing.T) {
	agent := newFakeAgent()
	o, err := New(Config{Mode: ModeGenerate, UserName: "Ann", UserID: "u1", WorkflowID: "wf-1"}, agent, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	req := agent.started[0]
	assert.Equal(t, "wf-1", req.WorkflowID)
	assert.Nil(t, req.Assistant)
	assert.Equal(t, map[string]string{"username": "Ann", "userid": "u1"}, req.VariableValues)

	close(agent.events)
	out := o.Run(context.Background())
	assert.Equal(t, Outcome{State: StateFinished, Redirect: "/"}, out)
}

func TestStopFinishesRun(t *testing.T) {
	agent := newFakeAgent()
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	done := make(chan Outcome, 1)
	go func() { done <- o.Run(context.Background()) }()
	require.NoError(t, o.Stop(context.Background()))
	require.NoError(t, o.Stop(context.Background()))

	select {
	case out := <-done:
		assert.Equal(t, "/interview/iv1/feedback", out.Redirect)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
	}
	assert.Equal(t, 1, agent.stops)
}

func TestStartFailureSkipsFeedback(t *testing.T) {
	agent := newFakeAgent()
	agent.startErr = errors.New("no mic")
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	require.NoError(t, err)

	require.Error(t, o.Start(context.Background()))
	assert.Equal(t, StateFinished, o.State())
	out := o.Run(context.Background())
	assert.Equal(t, "/", out.Redirect)
	assert.Empty(t, fb.params)
}

func TestCancelledContextSkipsFeedback(t *testing.T) {
	agent := newFakeAgent()
	fb := &fakeFeedback{}
	o, err := New(interviewConfig(), agent, fb)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := o.Run(ctx)
	assert.Equal(t, "/", out.Redirect)
	assert.Empty(t, fb.params)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Mode: "chat"}, newFakeAgent(), nil)
	assert.Error(t, err)
	_, err = New(Config{Mode: ModeInterview}, newFakeAgent(), &fakeFeedback{})
	assert.Error(t, err)
	_, err = New(Config{Mode: ModeInterview, InterviewID: "iv"}, newFakeAgent(), nil)
	assert.Error(t, err)

	m, err := ParseMode(" Interview ")
	require.NoError(t, err)
	assert.Equal(t, ModeInterview, m)
}

func zapNop() *zap.Logger { return zap.NewNop() }
