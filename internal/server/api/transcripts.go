package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/signetic/internal/store"
)

// TranscriptsHandler saves and lists typed text.
//
//	GET    /api/transcripts[?limit=N]
//	POST   /api/transcripts      body {"text": "..."}; no body saves the live buffer
//	DELETE /api/transcripts/{id}
type TranscriptsHandler struct {
	store  *store.Store
	typist Typist
}

// NewTranscriptsHandler creates a TranscriptsHandler. typist may be nil, in
// which case POST requires a text body.
func NewTranscriptsHandler(s *store.Store, t Typist) *TranscriptsHandler {
	return &TranscriptsHandler{store: s, typist: t}
}

type createTranscriptRequest struct {
	Text *string `json:"text"`
}

type transcriptResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type listTranscriptsResponse struct {
	Transcripts []transcriptResponse `json:"transcripts"`
}

func toTranscriptResponse(t *store.Transcript) transcriptResponse {
	return transcriptResponse{ID: t.ID, Text: t.Text, CreatedAt: formatTime(t.CreatedAt)}
}

// ServeHTTP implements the http.Handler interface.
func (h *TranscriptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/transcripts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.delete(w, r, path)
}

func (h *TranscriptsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	list, err := h.store.Transcripts().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transcripts")
		return
	}
	resp := listTranscriptsResponse{Transcripts: make([]transcriptResponse, 0, len(list))}
	for _, t := range list {
		resp.Transcripts = append(resp.Transcripts, toTranscriptResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TranscriptsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTranscriptRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var text string
	switch {
	case req.Text != nil:
		text = *req.Text
	case h.typist != nil:
		text = h.typist.Status().Text
	default:
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "Nothing to save")
		return
	}

	t, err := h.store.Transcripts().Create(text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save transcript")
		return
	}
	writeJSON(w, http.StatusCreated, toTranscriptResponse(t))
}

func (h *TranscriptsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Transcripts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transcript not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete transcript")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
