package voice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"prepwise/internal/logging"
)

const (
	bridgeWriteWait = 10 * time.Second
	bridgePongWait  = 60 * time.Second
	bridgePingEvery = (bridgePongWait * 9) / 10
)

var ErrBridgeClosed = errors.New("voice: bridge closed")

// inbound is what the browser relays from the voice SDK.
type inbound struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// outbound is a command for the browser-side SDK.
type outbound struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
	*StartRequest
	Path string `json:"path,omitempty"`
}

// Bridge drives the browser-hosted voice SDK over a websocket. The browser
// executes start/stop commands and relays SDK events back.
type Bridge struct {
	conn  *websocket.Conn
	token string

	writeCh   chan outbound
	events    chan Event
	quit      chan struct{}
	closeOnce sync.Once
}

var _ Agent = (*Bridge)(nil)

func NewBridge(conn *websocket.Conn, token string) *Bridge {
	return &Bridge{
		conn:    conn,
		token:   token,
		writeCh: make(chan outbound, 16),
		events:  make(chan Event, 64),
		quit:    make(chan struct{}),
	}
}

func (b *Bridge) Events() <-chan Event { return b.events }

func (b *Bridge) Start(ctx context.Context, req StartRequest) error {
	return b.send(ctx, outbound{Type: "start", Token: b.token, StartRequest: &req})
}

func (b *Bridge) Stop(ctx context.Context) error {
	return b.send(ctx, outbound{Type: "stop"})
}

// Navigate tells the page where to go once the session is over.
func (b *Bridge) Navigate(ctx context.Context, path string) error {
	return b.send(ctx, outbound{Type: "navigate", Path: path})
}

// Close flushes queued commands and closes the connection.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.quit) })
}

func (b *Bridge) send(ctx context.Context, out outbound) error {
	select {
	case <-b.quit:
		return ErrBridgeClosed
	default:
	}
	select {
	case b.writeCh <- out:
		return nil
	case <-b.quit:
		return ErrBridgeClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve pumps the connection until the peer disconnects, Close is called or
// ctx ends. Events is closed on return.
func (b *Bridge) Serve(ctx context.Context) {
	log := logging.Logger(ctx)
	if err := b.conn.SetReadDeadline(time.Now().Add(bridgePongWait)); err != nil {
		log.Warn("voice bridge set read deadline failed", zap.Error(err))
	}
	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(bridgePongWait))
	})

	writerDone := make(chan struct{})
	go b.writeLoop(writerDone)
	go func() {
		select {
		case <-ctx.Done():
			b.Close()
		case <-b.quit:
		}
	}()

	b.readLoop(ctx)
	close(b.events)
	b.Close()
	<-writerDone
}

func (b *Bridge) writeLoop(done chan<- struct{}) {
	defer close(done)
	defer b.conn.Close()
	ticker := time.NewTicker(bridgePingEvery)
	defer ticker.Stop()

	write := func(out outbound) error {
		if err := b.conn.SetWriteDeadline(time.Now().Add(bridgeWriteWait)); err != nil {
			return err
		}
		return b.conn.WriteJSON(out)
	}
	for {
		select {
		case out := <-b.writeCh:
			if err := write(out); err != nil {
				b.Close()
				return
			}
		case <-ticker.C:
			if err := b.conn.SetWriteDeadline(time.Now().Add(bridgeWriteWait)); err != nil {
				b.Close()
				return
			}
			if err := b.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				b.Close()
				return
			}
		case <-b.quit:
			for {
				select {
				case out := <-b.writeCh:
					if err := write(out); err != nil {
						return
					}
				default:
					_ = b.conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
						time.Now().Add(bridgeWriteWait))
					return
				}
			}
		}
	}
}

func (b *Bridge) readLoop(ctx context.Context) {
	log := logging.Logger(ctx)
	for {
		var in inbound
		if err := b.conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("voice bridge read ended", zap.Error(err))
			}
			return
		}
		ev, ok := b.translate(ctx, in)
		if !ok {
			continue
		}
		select {
		case b.events <- ev:
		case <-b.quit:
			return
		}
	}
}

func (b *Bridge) translate(ctx context.Context, in inbound) (Event, bool) {
	log := logging.Logger(ctx)
	switch kind := EventKind(strings.ToLower(strings.TrimSpace(in.Type))); kind {
	case EventCallStart, EventCallEnd, EventSpeechStart, EventSpeechEnd, EventStopRequested:
		return Event{Kind: kind}, true
	case EventError:
		msg := strings.TrimSpace(in.Error)
		if msg == "" {
			msg = "voice agent error"
		}
		return Event{Kind: EventError, Err: errors.New(msg)}, true
	case EventMessage:
		m, err := DecodeMessage(in.Message)
		if err != nil {
			log.Debug("voice bridge dropped message", zap.Error(err))
			return Event{}, false
		}
		return Event{Kind: EventMessage, Message: m}, true
	case "ping":
		_ = b.send(ctx, outbound{Type: "pong"})
		return Event{}, false
	default:
		log.Debug("voice bridge ignored frame", zap.String("type", in.Type))
		return Event{}, false
	}
}
