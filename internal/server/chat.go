package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gemini-chat-backend/internal/gemini"
	"gemini-chat-backend/internal/types"
)

// POST /api/chat
// Body: { message } or { messages: [{role, text}, ...] }.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.chat.Generate(r.Context(), chatTurns(req))
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, types.ChatResponse{
		Response:         result.Text,
		Citations:        result.Citations,
		SearchEntryPoint: result.SearchEntryPoint,
	})
}

// POST /api/chat/stream
// Same body as /api/chat; response is raw text chunks, flushed as they
// arrive. The client concatenates chunks in order.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	wrote := false
	for chunk, err := range s.chat.GenerateStream(r.Context(), chatTurns(req)) {
		if err != nil {
			if !wrote {
				s.writeChatError(w, err)
			} else {
				// Headers are gone; all we can do is stop.
				log.Println("chat stream aborted:", err)
			}
			return
		}
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			wrote = true
		}
		_, _ = w.Write([]byte(chunk))
		flusher.Flush()
	}
}

// writeChatError maps the generation error taxonomy to HTTP. Upstream causes
// are logged, never echoed to the caller.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gemini.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, gemini.ErrNotConfigured):
		s.writeError(w, http.StatusInternalServerError, "API key is not configured")
	default:
		log.Println("gemini error:", err)
		s.writeError(w, http.StatusInternalServerError, "error while processing chat")
	}
}

// chatTurns normalizes the two accepted request shapes into one conversation.
// A client-held history wins over the single-message field.
func chatTurns(req types.ChatRequest) []types.ChatTurn {
	if len(req.Messages) > 0 {
		return req.Messages
	}
	return []types.ChatTurn{{Role: "user", Text: req.Message}}
}
