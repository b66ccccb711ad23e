// Package db keeps the session gesture log in a local sqlite database.
//
// The JSON dataset files are the source of truth for training data; the
// gesture log is an append-only record of what was captured when, used for
// session stats and auditing a collection run.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (and if needed creates) the gesture log at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gestures (
			gesture_id        TEXT PRIMARY KEY,
			category          TEXT NOT NULL,
			timesteps         BIGINT NOT NULL,
			source            TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS predictions (
			prediction_id     TEXT PRIMARY KEY,
			label             TEXT NOT NULL,
			confidence        DOUBLE NOT NULL,
			timesteps         BIGINT NOT NULL,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RecordGesture logs one accepted recording.
func (db *DB) RecordGesture(id, category string, timesteps int, source string) error {
	_, err := db.Exec(
		`INSERT INTO gestures (gesture_id, category, timesteps, source) VALUES (?, ?, ?, ?)`,
		id, category, timesteps, source,
	)
	if err != nil {
		return fmt.Errorf("failed to record gesture %s: %w", id, err)
	}
	return nil
}

// RecordPrediction logs one classification result.
func (db *DB) RecordPrediction(id, label string, confidence float64, timesteps int) error {
	_, err := db.Exec(
		`INSERT INTO predictions (prediction_id, label, confidence, timesteps) VALUES (?, ?, ?, ?)`,
		id, label, confidence, timesteps,
	)
	if err != nil {
		return fmt.Errorf("failed to record prediction %s: %w", id, err)
	}
	return nil
}

// CategoryCounts returns the number of logged gestures per category.
func (db *DB) CategoryCounts() (map[string]int, error) {
	rows, err := db.Query(`SELECT category, COUNT(*) FROM gestures GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// GestureRecord is one row of the gesture log.
type GestureRecord struct {
	ID        string
	Category  string
	Timesteps int
	Source    string
	Timestamp time.Time
}

// RecentGestures returns the most recent gestures, newest first.
func (db *DB) RecentGestures(limit int) ([]GestureRecord, error) {
	rows, err := db.Query(
		`SELECT gesture_id, category, timesteps, COALESCE(source, ''), timestamp
		 FROM gestures ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GestureRecord
	for rows.Next() {
		var r GestureRecord
		if err := rows.Scan(&r.ID, &r.Category, &r.Timesteps, &r.Source, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
