package gesture

import (
	"cmp"
	"slices"

	"github.com/ayusman/signetic/internal/detector"
)

// LabeledSample is a captured landmark set with the letter it was meant to show.
type LabeledSample struct {
	Label string
	Hand  detector.HandLandmarks
}

// LabelReport is the accuracy for one label.
type LabelReport struct {
	Label      string         `json:"label"`
	Total      int            `json:"total"`
	Correct    int            `json:"correct"`
	Accuracy   float64        `json:"accuracy"`
	Confusions map[string]int `json:"confusions,omitempty"`
}

// Report summarizes a calibration run.
type Report struct {
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Accuracy float64       `json:"accuracy"`
	Labels   []LabelReport `json:"labels"`
}

// Evaluate classifies every sample without motion state and compares
// the result to its label.
func (c *Classifier) Evaluate(samples []LabeledSample) Report {
	byLabel := make(map[string]*LabelReport)
	var rep Report
	for i := range samples {
		s := &samples[i]
		lr, ok := byLabel[s.Label]
		if !ok {
			lr = &LabelReport{Label: s.Label}
			byLabel[s.Label] = lr
		}
		got := c.Classify(&s.Hand, nil)
		lr.Total++
		rep.Total++
		if string(got) == s.Label {
			lr.Correct++
			rep.Correct++
			continue
		}
		if lr.Confusions == nil {
			lr.Confusions = make(map[string]int)
		}
		name := string(got)
		if got == SymbolNone {
			name = "none"
		}
		lr.Confusions[name]++
	}

	rep.Accuracy = ratio(rep.Correct, rep.Total)
	rep.Labels = make([]LabelReport, 0, len(byLabel))
	for _, lr := range byLabel {
		lr.Accuracy = ratio(lr.Correct, lr.Total)
		rep.Labels = append(rep.Labels, *lr)
	}
	slices.SortFunc(rep.Labels, func(a, b LabelReport) int {
		return cmp.Compare(a.Label, b.Label)
	})
	return rep
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
