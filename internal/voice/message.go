package voice

import (
	"encoding/json"
	"errors"
	"fmt"
)

type MessageType string

const (
	MessageTranscript         MessageType = "transcript"
	MessageFunctionCall       MessageType = "function-call"
	MessageFunctionCallResult MessageType = "function-call-result"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
)

type TranscriptType string

const (
	TranscriptPartial TranscriptType = "partial"
	TranscriptFinal   TranscriptType = "final"
)

var ErrUnknownMessageType = errors.New("voice: unknown message type")

// Message is one client message emitted by the voice agent. The concrete
// type is selected by the "type" tag.
type Message interface {
	Type() MessageType
}

type TranscriptMessage struct {
	Role           Role           `json:"role"`
	TranscriptType TranscriptType `json:"transcriptType"`
	Transcript     string         `json:"transcript"`
}

func (TranscriptMessage) Type() MessageType { return MessageTranscript }

// Final reports whether the utterance will not be revised any more.
func (m TranscriptMessage) Final() bool { return m.TranscriptType == TranscriptFinal }

type FunctionCall struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

type FunctionCallMessage struct {
	FunctionCall FunctionCall `json:"functionCall"`
}

func (FunctionCallMessage) Type() MessageType { return MessageFunctionCall }

// FunctionCallResult keeps unknown keys in Extra.
type FunctionCallResult struct {
	ForwardToClientEnabled bool                       `json:"forwardToClientEnabled,omitempty"`
	Result                 json.RawMessage            `json:"result,omitempty"`
	Extra                  map[string]json.RawMessage `json:"-"`
}

func (r *FunctionCallResult) UnmarshalJSON(b []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	if v, ok := all["forwardToClientEnabled"]; ok {
		if err := json.Unmarshal(v, &r.ForwardToClientEnabled); err != nil {
			return fmt.Errorf("forwardToClientEnabled: %w", err)
		}
		delete(all, "forwardToClientEnabled")
	}
	if v, ok := all["result"]; ok {
		r.Result = v
		delete(all, "result")
	}
	if len(all) > 0 {
		r.Extra = all
	}
	return nil
}

type FunctionCallResultMessage struct {
	FunctionCallResult FunctionCallResult `json:"functionCallResult"`
}

func (FunctionCallResultMessage) Type() MessageType { return MessageFunctionCallResult }

// DecodeMessage dispatches on the "type" tag.
func DecodeMessage(raw []byte) (Message, error) {
	var probe struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode voice message: %w", err)
	}
	switch probe.Type {
	case MessageTranscript:
		var m TranscriptMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		return m, nil
	case MessageFunctionCall:
		var m FunctionCallMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode function call: %w", err)
		}
		return m, nil
	case MessageFunctionCallResult:
		var m FunctionCallResultMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode function call result: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, probe.Type)
	}
}
