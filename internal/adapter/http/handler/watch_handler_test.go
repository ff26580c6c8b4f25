package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/khatahub/khata/internal/adapter/http/middleware"
)

type subscriberStub struct {
	events chan []byte
	stops  int
}

func (s *subscriberStub) Subscribe(ctx context.Context, ownerID string) (<-chan []byte, func(), error) {
	return s.events, func() { s.stops++ }, nil
}

func TestWatchHandler_StreamsEvents(t *testing.T) {
	sub := &subscriberStub{events: make(chan []byte, 1)}
	handler := NewWatchHandler(sub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/watch", nil).WithContext(ctx)
	req = withOwner(req, "owner1")
	rec := httptest.NewRecorder()

	sub.events <- []byte(`{"type":"transaction.recorded"}`)

	done := make(chan struct{})
	go func() {
		handler.Watch(rec, req)
		close(done)
	}()

	// Give the handler time to drain the buffered event, then end the stream.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after context cancel")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: change") {
		t.Fatalf("expected SSE change event, got %q", body)
	}
	if !strings.Contains(body, `{"type":"transaction.recorded"}`) {
		t.Fatalf("expected event payload in stream, got %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %s", ct)
	}
	if sub.stops != 1 {
		t.Fatalf("expected subscription to be stopped once, got %d", sub.stops)
	}
}

func TestWatchHandler_OutlivesServerWriteTimeout(t *testing.T) {
	sub := &subscriberStub{events: make(chan []byte)}
	handler := NewWatchHandler(sub, nil)

	// Serve through the real middleware stack so the deadline reset has to
	// reach the connection behind the response wrappers.
	stack := middleware.NewLoggingMiddleware(zerolog.Nop()).Wrap(
		middleware.Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler.Watch(w, withOwner(r, "owner1"))
		})))

	ts := httptest.NewUnstartedServer(stack)
	ts.Config.WriteTimeout = 500 * time.Millisecond
	ts.Start()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/watch")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	const numEvents = 6
	go func() {
		for range numEvents {
			time.Sleep(150 * time.Millisecond)
			sub.events <- []byte(`{"type":"transaction.recorded"}`)
		}
	}()

	// Six events over ~900ms only arrive if the stream survives past the
	// server's 500ms write deadline.
	var got int
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data:") {
			got++
			if got == numEvents {
				break
			}
		}
	}
	if got != numEvents {
		t.Fatalf("stream ended early: got %d of %d events (scan err: %v)", got, numEvents, scanner.Err())
	}
}

func TestWatchHandler_RequiresAuth(t *testing.T) {
	handler := NewWatchHandler(&subscriberStub{events: make(chan []byte)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/watch", nil)
	rec := httptest.NewRecorder()

	handler.Watch(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWatchHandler_ClosedChannelEndsStream(t *testing.T) {
	sub := &subscriberStub{events: make(chan []byte)}
	handler := NewWatchHandler(sub, nil)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/watch", nil), "owner1")
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.Watch(rec, req)
		close(done)
	}()

	close(sub.events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after channel close")
	}
}
