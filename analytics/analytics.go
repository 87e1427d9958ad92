// Package analytics persists extraction history in SQLite and answers
// aggregate questions about it.
package analytics

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event is one recorded extraction.
type Event struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	Category   string `json:"category"`
	FileSize   int64  `json:"file_size"`
	OCRUsed    bool   `json:"ocr_used"`
	Outcome    string `json:"outcome"`
	DurationMs int64  `json:"duration_ms"`
	TextLength int    `json:"text_length"`
	CreatedAt  string `json:"created_at"`
}

// DayCount is one day of extraction volume.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary aggregates the recorded history.
type Summary struct {
	TotalExtractions int            `json:"total_extractions"`
	ByType           map[string]int `json:"by_type"`
	ByCategory       map[string]int `json:"by_category"`
	ByOutcome        map[string]int `json:"by_outcome"`
	OCRExtractions   int            `json:"ocr_extractions"`
	TotalBytes       int64          `json:"total_bytes"`
	AvgDurationMs    float64        `json:"avg_duration_ms"`

	// SizeBuckets counts files by size band: "0-1MB", "1-5MB",
	// "5-10MB", "10MB+".
	SizeBuckets map[string]int `json:"size_buckets"`

	// LastWeek is the daily extraction count over the previous seven
	// days, oldest first.
	LastWeek []DayCount `json:"last_week"`

	// TopUsers maps the most active user IDs to their counts.
	TopUsers map[string]int `json:"top_users"`
}

// Store wraps the SQLite database holding extraction history.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one extraction event. A blank user ID is stored as
// "anonymous".
func (s *Store) Record(ctx context.Context, ev Event) error {
	if ev.UserID == "" {
		ev.UserID = "anonymous"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (user_id, filename, file_type, category, file_size, ocr_used, outcome, duration_ms, text_length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.UserID, ev.Filename, ev.FileType, ev.Category, ev.FileSize, ev.OCRUsed, ev.Outcome, ev.DurationMs, ev.TextLength)
	if err != nil {
		return fmt.Errorf("recording extraction: %w", err)
	}
	return nil
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, file_type, category, file_size, ocr_used, outcome, duration_ms, text_length, created_at
		FROM extractions ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Filename, &ev.FileType, &ev.Category,
			&ev.FileSize, &ev.OCRUsed, &ev.Outcome, &ev.DurationMs,
			&ev.TextLength, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Summarize computes the aggregate view of all recorded events.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	sum := &Summary{
		ByType:     map[string]int{},
		ByCategory: map[string]int{},
		ByOutcome:  map[string]int{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(file_size), 0),
		       COALESCE(SUM(ocr_used), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM extractions
	`).Scan(&sum.TotalExtractions, &sum.TotalBytes, &sum.OCRExtractions, &sum.AvgDurationMs)
	if err != nil {
		return nil, err
	}

	for col, dst := range map[string]map[string]int{
		"file_type": sum.ByType,
		"category":  sum.ByCategory,
		"outcome":   sum.ByOutcome,
	} {
		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf("SELECT %s, COUNT(*) FROM extractions GROUP BY %s", col, col))
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return nil, err
			}
			dst[key] = n
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}

	if err := s.sizeBuckets(ctx, sum); err != nil {
		return nil, err
	}
	if err := s.lastWeek(ctx, sum); err != nil {
		return nil, err
	}
	if err := s.topUsers(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *Store) sizeBuckets(ctx context.Context, sum *Summary) error {
	sum.SizeBuckets = map[string]int{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE
		         WHEN file_size < 1048576 THEN '0-1MB'
		         WHEN file_size < 5242880 THEN '1-5MB'
		         WHEN file_size < 10485760 THEN '5-10MB'
		         ELSE '10MB+'
		       END AS bucket, COUNT(*)
		FROM extractions GROUP BY bucket
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bucket string
		var n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return err
		}
		sum.SizeBuckets[bucket] = n
	}
	return rows.Err()
}

func (s *Store) lastWeek(ctx context.Context, sum *Summary) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE(created_at) AS day, COUNT(*)
		FROM extractions
		WHERE created_at >= DATETIME('now', '-7 days')
		GROUP BY day ORDER BY day
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return err
		}
		sum.LastWeek = append(sum.LastWeek, dc)
	}
	return rows.Err()
}

func (s *Store) topUsers(ctx context.Context, sum *Summary) error {
	sum.TopUsers = map[string]int{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, COUNT(*) AS n
		FROM extractions GROUP BY user_id ORDER BY n DESC LIMIT 10
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var user string
		var n int
		if err := rows.Scan(&user, &n); err != nil {
			return err
		}
		sum.TopUsers[user] = n
	}
	return rows.Err()
}

// ExportCSV streams the full history as CSV, oldest first.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, file_type, category, file_size, ocr_used, outcome, duration_ms, text_length, created_at
		FROM extractions ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "user_id", "filename", "file_type", "category", "file_size",
		"ocr_used", "outcome", "duration_ms", "text_length", "created_at",
	}); err != nil {
		return err
	}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Filename, &ev.FileType, &ev.Category,
			&ev.FileSize, &ev.OCRUsed, &ev.Outcome, &ev.DurationMs,
			&ev.TextLength, &ev.CreatedAt); err != nil {
			return err
		}
		if err := cw.Write([]string{
			strconv.FormatInt(ev.ID, 10), ev.UserID, ev.Filename, ev.FileType, ev.Category,
			strconv.FormatInt(ev.FileSize, 10), strconv.FormatBool(ev.OCRUsed),
			ev.Outcome, strconv.FormatInt(ev.DurationMs, 10),
			strconv.Itoa(ev.TextLength), ev.CreatedAt,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Reset deletes all recorded history.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM extractions")
	return err
}

const schemaSQL = `
-- Extraction history, one row per processed file
CREATE TABLE IF NOT EXISTS extractions (
    id INTEGER PRIMARY KEY,
    user_id TEXT NOT NULL DEFAULT 'anonymous',
    filename TEXT NOT NULL,
    file_type TEXT NOT NULL,
    category TEXT NOT NULL,
    file_size INTEGER NOT NULL DEFAULT 0,
    ocr_used BOOLEAN NOT NULL DEFAULT 0,
    outcome TEXT NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    text_length INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_extractions_type ON extractions(file_type);
CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at);
`
