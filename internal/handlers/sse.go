package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xelth-com/invoiceflow/internal/events"
)

// documentEvents streams one document's progress as Server-Sent Events.
// The stream opens with a synthetic connected event; the subscription is
// released when the remote side disconnects.
func (r *Router) documentEvents(w http.ResponseWriter, req *http.Request) {
	docID, ok := pathID(w, req)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch := r.bus.Subscribe(docID)
	defer r.bus.Unsubscribe(docID, ch)

	fmt.Fprintf(w, "event: status\ndata: %s\n\n", `{"status":"connected"}`)
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case ev := <-ch:
			if err := writeSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE emits one event in SSE wire format
func writeSSE(w http.ResponseWriter, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
	return err
}
