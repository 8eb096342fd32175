package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ChatRequest is the JSON body for a chat query.
type ChatRequest struct {
	Message string `json:"message"`
}

// handleChat streams the answer as server-sent events. Each fragment is
// flushed as soon as the orchestrator produces it; client disconnects
// cancel the request context, which stops upstream consumption.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	err := s.orchestrator.Answer(r.Context(), req.Message, func(fragment string) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", sseEscape(fragment)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// The stream is already open; nothing more can be sent.
		s.logger.Warn("Chat stream aborted", "error", err)
	}
}

// sseEscape keeps multi-line fragments inside a single SSE data event.
func sseEscape(fragment string) string {
	return strings.ReplaceAll(fragment, "\n", "\ndata: ")
}
