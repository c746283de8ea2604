package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/signetic/internal/typing"
)

// editTimeout bounds how long an HTTP edit waits for the session goroutine.
const editTimeout = 2 * time.Second

// TextHandler serves the live status, external text edits and speech.
//
//	GET  /api/status
//	POST /api/text/{backspace|clear|space}
//	POST /api/speak
type TextHandler struct {
	typist  Typist
	speaker Speaker
}

// NewTextHandler creates a TextHandler. speaker may be nil.
func NewTextHandler(t Typist, s Speaker) *TextHandler {
	return &TextHandler{typist: t, speaker: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/status":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.typist.Status())

	case strings.HasPrefix(r.URL.Path, "/api/text/"):
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.edit(w, r, strings.TrimPrefix(r.URL.Path, "/api/text/"))

	case r.URL.Path == "/api/speak":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.speak(w, r)

	default:
		http.NotFound(w, r)
	}
}

func (h *TextHandler) edit(w http.ResponseWriter, r *http.Request, name string) {
	op, err := typing.ParseEditOp(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown edit: "+name)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), editTimeout)
	defer cancel()

	st, err := h.typist.Edit(ctx, op)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, st)
	case errors.Is(err, typing.ErrSessionClosed):
		writeError(w, http.StatusServiceUnavailable, "Typing session stopped")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "Typing session busy")
	default:
		slog.Error("text edit failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to edit text")
	}
}

func (h *TextHandler) speak(w http.ResponseWriter, r *http.Request) {
	if h.speaker == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech is not configured")
		return
	}
	if err := h.speaker.Speak(r.Context()); err != nil {
		slog.Warn("speak failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
