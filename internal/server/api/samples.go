package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/store"
)

// SamplesHandler manages labeled landmark captures and the calibration
// report computed over them.
//
//	GET    /api/samples[?label=X]
//	POST   /api/samples
//	DELETE /api/samples/{id}
//	GET    /api/samples/report
type SamplesHandler struct {
	store      *store.Store
	classifier *gesture.Classifier
}

// NewSamplesHandler creates a new SamplesHandler.
func NewSamplesHandler(s *store.Store, c *gesture.Classifier) *SamplesHandler {
	return &SamplesHandler{store: s, classifier: c}
}

type createSampleRequest struct {
	Label      string             `json:"label"`
	Landmarks  []detector.Point3D `json:"landmarks"`
	Handedness string             `json:"handedness"`
}

type sampleResponse struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Landmarks  []detector.Point3D `json:"landmarks"`
	Handedness string             `json:"handedness"`
	Predicted  gesture.Result     `json:"predicted"`
	CreatedAt  string             `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/samples")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case path == "report":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.report(w, r)
	default:
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.delete(w, r, path)
	}
}

func (h *SamplesHandler) toResponse(s *store.Sample) sampleResponse {
	hand := s.Hand()
	return sampleResponse{
		ID:         s.ID,
		Label:      s.Label,
		Landmarks:  s.Landmarks,
		Handedness: s.Handedness,
		Predicted:  h.classifier.Explain(&hand, nil),
		CreatedAt:  formatTime(s.CreatedAt),
	}
}

func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request) {
	samples, err := h.store.Samples().List(r.URL.Query().Get("label"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	resp := listSamplesResponse{Samples: make([]sampleResponse, 0, len(samples))}
	for _, s := range samples {
		resp.Samples = append(resp.Samples, h.toResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSampleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "Label is required")
		return
	}
	hand := detector.HandLandmarks{Points: req.Landmarks, Handedness: req.Handedness}
	if !hand.Complete() {
		writeError(w, http.StatusBadRequest, "A full set of 21 landmarks is required")
		return
	}

	s, err := h.store.Samples().Create(req.Label, hand)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sample")
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(s))
}

func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Samples().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sample not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sample")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SamplesHandler) report(w http.ResponseWriter, r *http.Request) {
	labeled, err := h.store.Samples().Labeled()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}
	writeJSON(w, http.StatusOK, h.classifier.Evaluate(labeled))
}
