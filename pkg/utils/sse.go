package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// SendSSEChunk writes one Server-Sent Events data frame and flushes it.
func SendSSEChunk(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal sse payload", "error", err)
		return
	}

	if _, err := w.Write([]byte("data: ")); err != nil {
		slog.Debug("failed to write sse prefix", "error", err)
		return
	}
	if _, err := w.Write(data); err != nil {
		slog.Debug("failed to write sse payload", "error", err)
		return
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		slog.Debug("failed to write sse terminator", "error", err)
		return
	}
	flusher.Flush()
}

// SetupSSEHeaders sets the response headers for an SSE stream.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}
