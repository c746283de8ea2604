package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ayusman/signetic/internal/detector"
	"github.com/ayusman/signetic/internal/gesture"
)

// Sample is a landmark capture labeled with the symbol it was meant to show.
type Sample struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Landmarks  []detector.Point3D `json:"landmarks"`
	Handedness string             `json:"handedness"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Hand returns the capture as detector output.
func (s *Sample) Hand() detector.HandLandmarks {
	return detector.HandLandmarks{Points: s.Landmarks, Handedness: s.Handedness, Score: 1}
}

// SampleRepository provides CRUD operations for labeled samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// NormalizeLabel maps a label onto the spelling the classifier reports:
// letters and word tokens upper-case, sentinels such as open_hand lower-case.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if utf8.RuneCountInString(label) == 1 || gesture.Symbol(strings.ToUpper(label)).IsWord() {
		return strings.ToUpper(label)
	}
	return strings.ToLower(label)
}

// Create stores a capture under its normalized label. The label must be
// non-empty and the capture must have a full landmark set.
func (r *SampleRepository) Create(label string, hand detector.HandLandmarks) (*Sample, error) {
	label = NormalizeLabel(label)
	if label == "" {
		return nil, errors.New("sample label is required")
	}
	if !hand.Complete() {
		return nil, fmt.Errorf("sample needs %d landmarks, got %d", detector.NumLandmarks, len(hand.Points))
	}

	data, err := json.Marshal(hand.Points)
	if err != nil {
		return nil, err
	}

	s := &Sample{
		ID:         uuid.New().String(),
		Label:      label,
		Landmarks:  hand.Points,
		Handedness: hand.Handedness,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = r.db.Exec(
		`INSERT INTO samples (id, label, landmarks, handedness, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Label, string(data), s.Handedness, s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns all samples, or only those with label when it is non-empty.
func (r *SampleRepository) List(label string) ([]*Sample, error) {
	query := `SELECT id, label, landmarks, handedness, created_at FROM samples`
	var args []any
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, NormalizeLabel(label))
	}
	query += ` ORDER BY label, created_at`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		s := &Sample{}
		var data string
		if err := rows.Scan(&s.ID, &s.Label, &data, &s.Handedness, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &s.Landmarks); err != nil {
			return nil, fmt.Errorf("sample %s: decode landmarks: %w", s.ID, err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Labeled returns every sample in the form the classifier evaluates.
func (r *SampleRepository) Labeled() ([]gesture.LabeledSample, error) {
	samples, err := r.List("")
	if err != nil {
		return nil, err
	}
	out := make([]gesture.LabeledSample, 0, len(samples))
	for _, s := range samples {
		out = append(out, gesture.LabeledSample{Label: s.Label, Hand: s.Hand()})
	}
	return out, nil
}

// Delete removes a sample by its ID.
func (r *SampleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(result)
}
