// Package repository persists AI-generated event descriptions so a
// report is fetched from the model at most once per unchanged event.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minjae-ko/gyomucal/internal/llm"
)

// ErrNotFound is returned when no cached description exists for an id.
var ErrNotFound = errors.New("not found")

// Description is one cached AI report for a calendar event.
type Description struct {
	EventID   string
	Content   string
	Citations []llm.Citation
	UpdatedAt time.Time
}

// SQLiteDescriptionRepo stores descriptions in SQLite.
type SQLiteDescriptionRepo struct {
	db *sql.DB
}

// NewSQLiteDescriptionRepo creates a new SQLiteDescriptionRepo.
func NewSQLiteDescriptionRepo(conn *sql.DB) *SQLiteDescriptionRepo {
	return &SQLiteDescriptionRepo{db: conn}
}

func (r *SQLiteDescriptionRepo) Get(ctx context.Context, eventID string) (*Description, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT event_id, content, citations, updated_at FROM ai_descriptions WHERE event_id = ?`, eventID)

	var d Description
	var citations, updatedAt string
	if err := row.Scan(&d.EventID, &d.Content, &citations, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("description %s: %w", eventID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning description: %w", err)
	}
	if err := json.Unmarshal([]byte(citations), &d.Citations); err != nil {
		return nil, fmt.Errorf("decoding citations: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		d.UpdatedAt = t
	}
	return &d, nil
}

func (r *SQLiteDescriptionRepo) Put(ctx context.Context, d Description) error {
	citations := d.Citations
	if citations == nil {
		citations = []llm.Citation{}
	}
	encoded, err := json.Marshal(citations)
	if err != nil {
		return fmt.Errorf("encoding citations: %w", err)
	}
	updatedAt := d.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ai_descriptions (event_id, content, citations, updated_at) VALUES (?, ?, ?, ?)`,
		d.EventID, d.Content, string(encoded), updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting description: %w", err)
	}
	return nil
}

func (r *SQLiteDescriptionRepo) Delete(ctx context.Context, eventID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ai_descriptions WHERE event_id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("deleting description: %w", err)
	}
	return nil
}
