package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBridge serves one Bridge and returns it with a connected client.
func startBridge(t *testing.T) (*Bridge, *websocket.Conn) {
	t.Helper()
	bridges := make(chan *Bridge, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b := NewBridge(conn, "tok")
		bridges <- b
		b.Serve(context.Background())
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case b := <-bridges:
		return b, client
	case <-time.After(2 * time.Second):
		t.Fatal("bridge not started")
		return nil, nil
	}
}

func nextEvent(t *testing.T, b *Bridge) Event {
	t.Helper()
	select {
	case ev := <-b.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
		return Event{}
	}
}

func TestBridgeRelaysEvents(t *testing.T) {
	b, client := startBridge(t)

	require.NoError(t, client.WriteJSON(map[string]any{"type": "call-start"}))
	assert.Equal(t, EventCallStart, nextEvent(t, b).Kind)

	require.NoError(t, client.WriteJSON(map[string]any{
		"type":    "message",
		"message": map[string]any{"type": "transcript", "role": "assistant", "transcriptType": "final", "transcript": "Hi"},
	}))
	ev := nextEvent(t, b)
	require.Equal(t, EventMessage, ev.Kind)
	tm, ok := ev.Message.(TranscriptMessage)
	require.True(t, ok)
	assert.Equal(t, "Hi", tm.Transcript)

	// undecodable messages are dropped, the stream continues
	require.NoError(t, client.WriteJSON(map[string]any{"type": "message", "message": map[string]any{"type": "bogus"}}))
	require.NoError(t, client.WriteJSON(map[string]any{"type": "error", "error": "mic denied"}))
	ev = nextEvent(t, b)
	require.Equal(t, EventError, ev.Kind)
	assert.EqualError(t, ev.Err, "mic denied")

	require.NoError(t, client.WriteJSON(map[string]any{"type": "stop"}))
	assert.Equal(t, EventStopRequested, nextEvent(t, b).Kind)
}

func TestBridgeSendsCommandsAndClosesEvents(t *testing.T) {
	b, client := startBridge(t)
	ctx := context.Background()

	require.NoError(t, b.Start(ctx, StartRequest{WorkflowID: "wf", VariableValues: map[string]string{"username": "Ann"}}))
	var got map[string]any
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "start", got["type"])
	assert.Equal(t, "tok", got["token"])
	assert.Equal(t, "wf", got["workflowId"])

	require.NoError(t, b.Navigate(ctx, "/"))
	b.Close()
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "navigate", got["type"])
	assert.Equal(t, "/", got["path"])

	select {
	case _, ok := <-b.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed")
	}
	assert.ErrorIs(t, b.Stop(ctx), ErrBridgeClosed)
}
