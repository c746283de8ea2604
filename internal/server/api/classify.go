package api

import (
	"net/http"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
)

// ClassifyHandler classifies a posted landmark set without touching the
// live session. POST /api/classify
type ClassifyHandler struct {
	classifier *gesture.Classifier
}

// NewClassifyHandler creates a ClassifyHandler.
func NewClassifyHandler(c *gesture.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: c}
}

type classifyRequest struct {
	Landmarks  []detector.Point3D `json:"landmarks"`
	Handedness string             `json:"handedness"`
}

type classifyResponse struct {
	gesture.Result
	Rules []string `json:"rules"`
}

// ServeHTTP implements the http.Handler interface.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Landmarks) == 0 {
		writeError(w, http.StatusBadRequest, "Landmarks are required")
		return
	}

	hand := detector.HandLandmarks{Points: req.Landmarks, Handedness: req.Handedness}
	writeJSON(w, http.StatusOK, classifyResponse{
		Result: h.classifier.Explain(&hand, nil),
		Rules:  h.classifier.RuleNames(),
	})
}
