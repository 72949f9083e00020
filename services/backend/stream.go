package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/event"
)

// errNotAuthenticated guards the channel factories: both transports carry the
// token at connection time and are useless without one.
var errNotAuthenticated = &Error{Code: http.StatusUnauthorized, Message: "not authenticated"}

// EventStream is the one-way server-push channel of domain events, opened by
// the admin view only. Transient: a transport error closes the stream and the
// owning view must reopen on its next visit; there is no automatic reconnect.
type EventStream struct {
	events    chan event.Event
	body      io.ReadCloser
	logger    core.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// OpenEvents connects to the server-push event stream. The bearer token rides
// as a query parameter: the stream primitive cannot set custom headers.
func (c *Client) OpenEvents(ctx context.Context) (*EventStream, error) {
	token, err := c.creds.Get()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errNotAuthenticated
	}

	q := url.Values{}
	q.Set("token", token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/event/stream", q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// the stream outlives any per-request timeout
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close() //nolint:errcheck
		return nil, c.newError(resp)
	}

	s := &EventStream{
		events: make(chan event.Event, 16),
		body:   resp.Body,
		logger: c.logger,
		done:   make(chan struct{}),
	}
	go s.read()
	c.logger.Info("backend: event stream connected")
	return s, nil
}

// Events delivers inbound events until the stream ends; the channel is closed
// on transport error or Close.
func (s *EventStream) Events() <-chan event.Event {
	return s.events
}

// Close tears the stream down. Mandatory on view unmount; safe to call twice.
func (s *EventStream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.body.Close(); err != nil {
			s.logger.Debug("backend: closing event stream", err)
		}
	})
}

func (s *EventStream) read() {
	defer close(s.events)

	var data bytes.Buffer
	scanner := bufio.NewScanner(s.body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "": // frame boundary
			if data.Len() > 0 {
				s.dispatch(data.Bytes())
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default: // comments, event ids: ignored
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case <-s.done: // deliberate Close
		default:
			s.logger.Warn("backend: event stream closed", err)
		}
	}
}

// dispatch parses one frame; a malformed payload is dropped and logged, never
// terminating the channel.
func (s *EventStream) dispatch(frame []byte) {
	var evt event.Event
	if err := json.Unmarshal(frame, &evt); err != nil {
		s.logger.Warn("backend: dropping malformed event payload", err)
		return
	}
	select {
	case s.events <- evt:
	case <-s.done:
	}
}
