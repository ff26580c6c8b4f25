package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ChangeSubscriber is the live feed of an owner's ledger changes.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, ownerID string) (<-chan []byte, func(), error)
}

// WatchSessions tracks open streams, typically a Prometheus gauge.
type WatchSessions interface {
	Inc()
	Dec()
}

// WatchHandler streams ledger change events over Server-Sent Events. A
// client holds the connection open and receives one SSE message per
// committed change in the owner's book.
type WatchHandler struct {
	subscriber ChangeSubscriber
	sessions   WatchSessions
	heartbeat  time.Duration
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(subscriber ChangeSubscriber, sessions WatchSessions) *WatchHandler {
	return &WatchHandler{
		subscriber: subscriber,
		sessions:   sessions,
		heartbeat:  30 * time.Second,
	}
}

// Watch opens the change stream for the authenticated owner.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	// The server's global write timeout would cut a long-lived stream, so
	// lift the deadline for this connection only.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	events, stop, err := h.subscriber.Subscribe(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to subscribe", err.Error())
		return
	}
	defer stop()

	if h.sessions != nil {
		h.sessions.Inc()
		defer h.sessions.Dec()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			// Comment line keeps intermediaries from closing an idle stream.
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case payload, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
