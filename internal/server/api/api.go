// Package api provides the HTTP handlers for the signetic typing service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/signetic/internal/typing"
)

// maxBody caps request bodies; a landmark set is well under 8 KiB.
const maxBody = 1 << 20

// Typist is the typing session as seen by the API.
type Typist interface {
	Status() typing.Status
	Edit(ctx context.Context, op typing.EditOp) (typing.Status, error)
}

// Speaker reads the current text aloud.
type Speaker interface {
	Speak(ctx context.Context) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody)).Decode(v)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
