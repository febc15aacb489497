// Package session drives one voice interview call from start to feedback.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"prepwise/internal/gateway/entity"
	feedbacksvc "prepwise/internal/gateway/service/feedback"
	"prepwise/internal/logging"
	"prepwise/internal/voice"
)

type Mode string

const (
	ModeGenerate  Mode = "generate"
	ModeInterview Mode = "interview"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGenerate, ModeInterview:
		return m, nil
	default:
		return "", fmt.Errorf("unknown session mode %q", s)
	}
}

type State string

const (
	StateInactive   State = "INACTIVE"
	StateConnecting State = "CONNECTING"
	StateActive     State = "ACTIVE"
	StateFinished   State = "FINISHED"
)

var ErrAlreadyStarted = errors.New("session already started")

// FeedbackCreator scores a finished interview and returns the feedback id.
type FeedbackCreator interface {
	Create(ctx context.Context, p feedbacksvc.Params) (string, error)
}

type Config struct {
	Mode        Mode
	UserName    string
	UserID      entity.UserID
	InterviewID string
	FeedbackID  string
	Questions   []string
	// WorkflowID is the generate-mode workflow.
	WorkflowID string
	// Assistant overrides the default interviewer script.
	Assistant *voice.AssistantConfig
}

// Outcome is where the user goes after the call.
type Outcome struct {
	State      State  `json:"state"`
	Redirect   string `json:"redirect"`
	FeedbackID string `json:"feedbackId,omitempty"`
}

type Orchestrator struct {
	cfg      Config
	agent    voice.Agent
	feedback FeedbackCreator

	mu         sync.Mutex
	state      State
	startErr   error
	transcript []entity.TranscriptTurn

	stopOnce sync.Once
	stopped  chan struct{}
}

func New(cfg Config, agent voice.Agent, feedback FeedbackCreator) (*Orchestrator, error) {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeInterview {
		if strings.TrimSpace(cfg.InterviewID) == "" {
			return nil, fmt.Errorf("interview mode requires an interview id")
		}
		if feedback == nil {
			return nil, fmt.Errorf("interview mode requires a feedback creator")
		}
	}
	return &Orchestrator{
		cfg:      cfg,
		agent:    agent,
		feedback: feedback,
		state:    StateInactive,
		stopped:  make(chan struct{}),
	}, nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Transcript returns a copy of the finalized turns collected so far.
func (o *Orchestrator) Transcript() []entity.TranscriptTurn {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]entity.TranscriptTurn(nil), o.transcript...)
}

// Start moves INACTIVE → CONNECTING and asks the agent to start the call.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateInactive {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.state = StateConnecting
	o.mu.Unlock()

	if err := o.agent.Start(ctx, o.startRequest()); err != nil {
		o.mu.Lock()
		o.startErr = err
		o.state = StateFinished
		o.mu.Unlock()
		return fmt.Errorf("start call: %w", err)
	}
	return nil
}

func (o *Orchestrator) startRequest() voice.StartRequest {
	if o.cfg.Mode == ModeGenerate {
		return voice.StartRequest{
			WorkflowID: o.cfg.WorkflowID,
			VariableValues: map[string]string{
				"username": o.cfg.UserName,
				"userid":   o.cfg.UserID.String(),
			},
		}
	}
	assistant := o.cfg.Assistant
	if assistant == nil {
		assistant = voice.Interviewer()
	}
	return voice.StartRequest{
		Assistant:      assistant,
		VariableValues: map[string]string{"questions": voice.FormatQuestions(o.cfg.Questions)},
	}
}

// Stop asks the agent to end the call and finishes the session.
func (o *Orchestrator) Stop(ctx context.Context) error {
	var err error
	o.stopOnce.Do(func() {
		err = o.agent.Stop(ctx)
		close(o.stopped)
	})
	return err
}

// Run consumes agent events until the call finishes, then concludes the
// session. A cancelled ctx finishes without generating feedback.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	log := logging.Logger(ctx).With(zap.String("mode", string(o.cfg.Mode)), zap.String("interview_id", o.cfg.InterviewID))
	events := o.agent.Events()
	for o.State() != StateFinished {
		select {
		case <-ctx.Done():
			o.finish()
			return Outcome{State: StateFinished, Redirect: "/"}
		case <-o.stopped:
			o.finish()
		case ev, ok := <-events:
			if !ok {
				log.Info("voice transport closed")
				o.finish()
				continue
			}
			if ev.Kind == voice.EventStopRequested {
				if err := o.Stop(ctx); err != nil {
					log.Warn("stopping voice call failed", zap.Error(err))
				}
				o.finish()
				continue
			}
			o.handle(log, ev)
		}
	}
	return o.conclude(ctx, log)
}

func (o *Orchestrator) handle(log *zap.Logger, ev voice.Event) {
	switch ev.Kind {
	case voice.EventCallStart:
		o.mu.Lock()
		if o.state == StateConnecting {
			o.state = StateActive
		}
		o.mu.Unlock()
	case voice.EventCallEnd:
		o.finish()
	case voice.EventSpeechStart, voice.EventSpeechEnd:
		log.Debug("agent speech", zap.String("event", string(ev.Kind)))
	case voice.EventMessage:
		switch m := ev.Message.(type) {
		case voice.TranscriptMessage:
			if !m.Final() {
				return
			}
			o.mu.Lock()
			o.transcript = append(o.transcript, entity.TranscriptTurn{Role: string(m.Role), Content: m.Transcript})
			o.mu.Unlock()
		case voice.FunctionCallMessage:
			log.Debug("agent function call", zap.String("name", m.FunctionCall.Name))
		case voice.FunctionCallResultMessage:
			log.Debug("agent function call result")
		}
	case voice.EventError:
		log.Warn("voice agent error, ending call", zap.Error(ev.Err))
		o.finish()
	}
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.state = StateFinished
	o.mu.Unlock()
}

func (o *Orchestrator) conclude(ctx context.Context, log *zap.Logger) Outcome {
	o.mu.Lock()
	transcript := o.transcript
	o.transcript = nil
	startErr := o.startErr
	o.mu.Unlock()

	out := Outcome{State: StateFinished, Redirect: "/"}
	if o.cfg.Mode == ModeGenerate || startErr != nil {
		return out
	}
	id, err := o.feedback.Create(ctx, feedbacksvc.Params{
		InterviewID: o.cfg.InterviewID,
		UserID:      o.cfg.UserID.String(),
		Transcript:  transcript,
		FeedbackID:  o.cfg.FeedbackID,
	})
	if err != nil {
		log.Error("feedback generation failed", zap.Error(err))
		return out
	}
	out.FeedbackID = id
	out.Redirect = "/interview/" + o.cfg.InterviewID + "/feedback"
	return out
}
