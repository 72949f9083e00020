package backend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// Chat wire events.
const (
	chatEventAuthenticate = "authenticate"
	chatEventJoin         = "joinCourse"
	chatEventJoinSuccess  = "joinCourseSuccess"
	chatEventJoinError    = "joinCourseError"
	chatEventSend         = "sendCourseMessage"
	chatEventMessage      = "courseMessage"
	chatEventSendError    = "sendCourseMessageError"
)

// ChatState is the connection state of one course room session.
type ChatState int32

const (
	ChatConnecting ChatState = iota
	ChatJoined
	ChatJoinFailed
	ChatDisconnected
)

func (s ChatState) String() string {
	switch s {
	case ChatConnecting:
		return "connecting"
	case ChatJoined:
		return "joined"
	case ChatJoinFailed:
		return "join failed"
	case ChatDisconnected:
		return "disconnected"
	}
	return "unknown"
}

var (
	ErrChatEmptyMessage = errors.New("cannot send an empty message")
	ErrChatNotJoined    = errors.New("the course room is not joined")
)

type chatEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newChatEnvelope(evt string, data interface{}) (chatEnvelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return chatEnvelope{}, err
	}
	return chatEnvelope{Event: evt, Data: raw}, nil
}

// ChatSession is a bidirectional channel scoped to one course room. It exists
// only while its owning view is active; Close on unmount is mandatory.
type ChatSession struct {
	courseID string
	usr      user.User
	conn     *websocket.Conn
	logger   core.Logger
	notifier core.Notifier

	msgs      chan course.ChatMessage
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.RWMutex
	state ChatState

	wmu sync.Mutex // serializes writes
}

// OpenChat dials the chat channel for one course room. The access
// precondition is checked first: when it fails the channel is never opened
// and the caller shows a disabled view instead. Exactly one join request is
// emitted per successful open.
func (c *Client) OpenChat(ctx context.Context, crs course.Course, enr *course.Enrollment, usr user.User) (*ChatSession, error) {
	if err := course.CanOpenChat(usr, crs, enr); err != nil {
		return nil, err
	}

	token, err := c.creds.Get()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errNotAuthenticated
	}

	wsURL := strings.Replace(c.conf.API.BaseURL, "http", "ws", 1)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close() //nolint:errcheck
		}
		return nil, err
	}

	s := &ChatSession{
		courseID: crs.ID,
		usr:      usr,
		conn:     conn,
		logger:   c.logger,
		notifier: c.notifier,
		msgs:     make(chan course.ChatMessage, 16),
		done:     make(chan struct{}),
		state:    ChatConnecting,
	}

	// connection-time auth payload, then the room join
	if err := s.write(chatEventAuthenticate, map[string]string{"token": token}); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.write(chatEventJoin, map[string]string{"courseId": crs.ID}); err != nil {
		s.Close()
		return nil, err
	}

	go s.read()
	return s, nil
}

// Messages delivers inbound room messages in the order the channel delivers
// them; the channel is closed when the session ends.
func (s *ChatSession) Messages() <-chan course.ChatMessage {
	return s.msgs
}

func (s *ChatSession) State() ChatState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Send emits a message to the room. Optimistic: it does not wait for an
// acknowledgment, and the message reappears only when the server rebroadcasts
// it; there is no local echo.
func (s *ChatSession) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrChatEmptyMessage
	}
	if s.State() != ChatJoined {
		return ErrChatNotJoined
	}
	return s.write(chatEventSend, map[string]string{
		"courseId": s.courseID,
		"userId":   s.usr.ID,
		"username": s.usr.Username,
		"text":     text,
	})
}

// Close disconnects the channel. Mandatory on view unmount; safe to call twice.
func (s *ChatSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.conn.Close(); err != nil {
			s.logger.Debug("backend: closing chat channel", err)
		}
		s.setState(ChatDisconnected)
	})
}

func (s *ChatSession) write(evt string, data interface{}) error {
	env, err := newChatEnvelope(evt, data)
	if err != nil {
		return err
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteJSON(env)
}

func (s *ChatSession) setState(state ChatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == ChatJoinFailed && state == ChatDisconnected {
		return // JoinFailed is terminal for the mount
	}
	s.state = state
}

func (s *ChatSession) read() {
	defer close(s.msgs)

	for {
		var env chatEnvelope
		if err := s.conn.ReadJSON(&env); err != nil {
			select {
			case <-s.done: // deliberate Close
			default:
				s.logger.Debug("backend: chat channel closed", err)
				s.setState(ChatDisconnected)
			}
			return
		}

		switch env.Event {
		case chatEventJoinSuccess:
			s.setState(ChatJoined)

		case chatEventJoinError:
			s.setState(ChatJoinFailed)
			s.notifier.Error("Could not join the course chat: " + chatErrorMessage(env.Data))

		case chatEventMessage:
			var msg course.ChatMessage
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				s.logger.Warn("backend: dropping malformed chat message", err)
				continue
			}
			select {
			case s.msgs <- msg:
			case <-s.done:
				return
			}

		case chatEventSendError:
			s.notifier.Error("Message not sent: " + chatErrorMessage(env.Data))

		default:
			s.logger.Debug("backend: ignoring unknown chat event " + env.Event)
		}
	}
}

func chatErrorMessage(data json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "unexpected server error"
}
