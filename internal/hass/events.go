package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"window_comfort/internal/logger"

	"github.com/gorilla/websocket"
)

// notificationActionEvent is the host event type that carries responses to
// interactive notification actions.
const notificationActionEvent = "mobile_app_notification_action"

const streamRetryWait = 5 * time.Second

// ActionHandler receives the action identifier of an inbound event.
type ActionHandler func(ctx context.Context, action string)

// wsMessage covers every frame shape the stream cares about.
type wsMessage struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
}

type wsEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		Action string `json:"action"`
	} `json:"data"`
}

// EventStream subscribes to Home Assistant's WebSocket API and delivers
// notification-action events to the registered handler. It reconnects with
// a fixed wait after any failure.
type EventStream struct {
	url     string
	token   string
	handler ActionHandler
	log     *logger.Logger
}

func NewEventStream(baseURL, token string, log *logger.Logger) *EventStream {
	return &EventStream{
		url:   websocketURL(baseURL),
		token: token,
		log:   log,
	}
}

// OnAction sets the callback invoked for each inbound action event.
func (s *EventStream) OnAction(fn ActionHandler) {
	s.handler = fn
}

// Run maintains the subscription until ctx is canceled.
func (s *EventStream) Run(ctx context.Context) {
	for {
		if err := s.listen(ctx); err != nil {
			s.log.Errorw("event_stream_disconnected", "err", err, "retry_in", streamRetryWait)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(streamRetryWait):
		}
	}
}

func (s *EventStream) listen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer func() { _ = conn.Close() }()

	// Close the socket when the context ends to unblock reads.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := s.authenticate(conn); err != nil {
		return err
	}
	if err := s.subscribe(conn); err != nil {
		return err
	}
	s.log.Infow("event_stream_connected", "event_type", notificationActionEvent)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event frame: %w", err)
		}
		if msg.Type != "event" {
			continue
		}
		var ev wsEvent
		if err := json.Unmarshal(msg.Event, &ev); err != nil {
			s.log.Infow("event_decode_failed", "err", err)
			continue
		}
		if ev.EventType != notificationActionEvent || ev.Data.Action == "" {
			continue
		}
		if s.handler != nil {
			s.handler(ctx, ev.Data.Action)
		}
	}
}

// authenticate performs the auth_required -> auth -> auth_ok handshake.
func (s *EventStream) authenticate(conn *websocket.Conn) error {
	var hello wsMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read auth_required: %w", err)
	}
	if hello.Type != "auth_required" {
		return fmt.Errorf("unexpected handshake frame %q", hello.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "auth", "access_token": s.token}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}

	var reply wsMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("read auth reply: %w", err)
	}
	if reply.Type != "auth_ok" {
		return fmt.Errorf("authentication rejected: %q", reply.Type)
	}
	return nil
}

func (s *EventStream) subscribe(conn *websocket.Conn) error {
	sub := map[string]any{
		"id":         1,
		"type":       "subscribe_events",
		"event_type": notificationActionEvent,
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("send subscribe_events: %w", err)
	}

	var reply wsMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("read subscribe reply: %w", err)
	}
	if reply.Type != "result" || reply.Success == nil || !*reply.Success {
		return fmt.Errorf("subscription rejected: %q", reply.Type)
	}
	return nil
}

// websocketURL maps the REST base URL onto the websocket endpoint.
func websocketURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/websocket"
}
