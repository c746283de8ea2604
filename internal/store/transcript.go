package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Transcript is a saved text buffer.
type Transcript struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptRepository provides CRUD operations for transcripts.
type TranscriptRepository struct {
	db *sql.DB
}

// Transcripts returns the transcript repository for this store.
func (s *Store) Transcripts() *TranscriptRepository {
	return &TranscriptRepository{db: s.db}
}

// Create saves text and returns the new row. Empty text is allowed.
func (r *TranscriptRepository) Create(text string) (*Transcript, error) {
	t := &Transcript{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(
		`INSERT INTO transcripts (id, text, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Text, t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a transcript by its ID.
func (r *TranscriptRepository) GetByID(id string) (*Transcript, error) {
	t := &Transcript{}
	err := r.db.QueryRow(
		`SELECT id, text, created_at FROM transcripts WHERE id = ?`, id,
	).Scan(&t.ID, &t.Text, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns transcripts newest first. A non-positive limit returns all.
func (r *TranscriptRepository) List(limit int) ([]*Transcript, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, text, created_at FROM transcripts ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Transcript
	for rows.Next() {
		t := &Transcript{}
		if err := rows.Scan(&t.ID, &t.Text, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a transcript by its ID.
func (r *TranscriptRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM transcripts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(result)
}
