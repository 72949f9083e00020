package backend_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/event"
	"github.com/trezcool/darasa/storage/credentials"
)

// newStreamServer serves one event-stream response built from `frames`, then
// ends the stream.
func newStreamServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"authentication required"}`))
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			_, _ = fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// drain collects events until the stream ends.
func drain(t *testing.T, events <-chan event.Event) []event.Event {
	t.Helper()
	var out []event.Event
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, evt)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out draining event stream")
		}
	}
}

func TestEventStream_requiresToken(t *testing.T) {
	srv := newStreamServer(t)
	client, _ := newTestClient(t, srv.URL, credentials.NewMemory())

	_, err := client.OpenEvents(context.Background())
	assert.Error(t, err)
}

func TestEventStream_malformedPayloadsDropped(t *testing.T) {
	frames := []string{
		`{not json`,
		`also not json`,
		`{"type":`,
		`{"type":"userRegistered","createdAt":"2026-08-29T10:00:00Z"}`,
	}
	srv := newStreamServer(t, frames...)
	client, _ := newTestClient(t, srv.URL, credentials.NewMemory("tok"))

	stream, err := client.OpenEvents(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	feed := event.NewFeed()
	for _, evt := range drain(t, stream.Events()) {
		feed.Add(evt)
	}
	require.Equal(t, 1, feed.Len(), "malformed payloads are dropped, the channel survives")
	assert.Equal(t, event.KindUserRegistered, feed.Events()[0].Kind)
}

func TestEventStream_feedKeepsMostRecentTen(t *testing.T) {
	frames := make([]string, 11)
	for i := range frames {
		frames[i] = fmt.Sprintf(`{"type":"courseCreated","payload":{"seq":%d}}`, i)
	}
	srv := newStreamServer(t, frames...)
	client, _ := newTestClient(t, srv.URL, credentials.NewMemory("tok"))

	stream, err := client.OpenEvents(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	feed := event.NewFeed()
	for _, evt := range drain(t, stream.Events()) {
		feed.Add(evt)
	}

	events := feed.Events()
	require.Len(t, events, 10)
	assert.JSONEq(t, `{"seq":10}`, string(events[0].Payload), "most recent first")
	assert.JSONEq(t, `{"seq":1}`, string(events[9].Payload), "oldest dropped")
}

func TestEventStream_closeEndsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, "data: {\"type\":\"courseCreated\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done() // stay open until the client hangs up
	}))
	t.Cleanup(srv.Close)

	client, _ := newTestClient(t, srv.URL, credentials.NewMemory("tok"))
	stream, err := client.OpenEvents(context.Background())
	require.NoError(t, err)

	select {
	case _, ok := <-stream.Events():
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	stream.Close()
	stream.Close() // safe to call twice

	select {
	case _, ok := <-stream.Events():
		assert.False(t, ok, "events channel closes after Close")
	case <-time.After(5 * time.Second):
		t.Fatal("events channel did not close")
	}
}
