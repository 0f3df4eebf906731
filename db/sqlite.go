// Package db persists served predictions in SQLite.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"drybean/ml"
)

// Record is one served prediction.
type Record struct {
	ID         int64              `json:"id"`
	SessionID  string             `json:"session_id,omitempty"`
	Source     string             `json:"source"`
	Label      string             `json:"label"`
	ClassIndex int                `json:"class_index"`
	Features   map[string]float64 `json:"features"`
	CreatedAt  time.Time          `json:"created_at"`
}

// HistoryStore appends predictions and lists recent ones.
type HistoryStore struct {
	database *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*HistoryStore, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT,
        source VARCHAR(20) NOT NULL,
        label VARCHAR(50) NOT NULL,
        class_index INTEGER NOT NULL,
        features TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize %s: %w", path, err)
	}
	return &HistoryStore{database: database}, nil
}

// Save records a prediction for the given vector.
func (s *HistoryStore) Save(ctx context.Context, sessionID, source string, v ml.FeatureVector, p ml.Prediction) error {
	if s == nil || s.database == nil {
		return errors.New("database not initialized")
	}
	if source == "" {
		return errors.New("source required")
	}
	features, err := json.Marshal(v.Map())
	if err != nil {
		return err
	}
	_, err = s.database.ExecContext(ctx, `
        INSERT INTO predictions (session_id, source, label, class_index, features, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, source, p.Label, p.ClassIndex, string(features), time.Now().UTC())
	return err
}

// Recent returns up to limit predictions, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.database.QueryContext(ctx, `
        SELECT id, session_id, source, label, class_index, features, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r         Record
			sessionID sql.NullString
			features  string
		)
		if err := rows.Scan(&r.ID, &sessionID, &r.Source, &r.Label, &r.ClassIndex, &features, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.SessionID = sessionID.String
		if err := json.Unmarshal([]byte(features), &r.Features); err != nil {
			return nil, fmt.Errorf("prediction %d: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *HistoryStore) Close() error {
	if s == nil || s.database == nil {
		return nil
	}
	return s.database.Close()
}
