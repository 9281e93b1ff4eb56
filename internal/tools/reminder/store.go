package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sehatlink/sehat-mcp/internal/logger"
)

var log = logger.ForComponent("reminder")

// Reminder is one stored record. Timestamps are second-resolution UTC,
// kept as RFC 3339 text in storage.
type Reminder struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Message   string    `json:"message"`
	DueAt     time.Time `json:"due_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Store owns the single durable reminder file. Writes take the write
// lock so concurrent creates never interleave; reads only need the read
// lock.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		message TEXT NOT NULL,
		due_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_patient ON reminders(patient_id);
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Create persists r inside a transaction. Once it returns nil the record
// is durable in the store file.
func (s *Store) Create(ctx context.Context, r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO reminders (id, patient_id, message, due_at, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.PatientID, r.Message,
		r.DueAt.UTC().Format(time.RFC3339), r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ByPatient returns the patient's reminders ordered by creation time then
// id, or an empty slice when there are none.
func (s *Store) ByPatient(ctx context.Context, patientID string) ([]Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, patient_id, message, due_at, created_at FROM reminders WHERE patient_id = ? ORDER BY created_at, id",
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]Reminder, 0)
	for rows.Next() {
		var r Reminder
		var due, created string
		if err := rows.Scan(&r.ID, &r.PatientID, &r.Message, &due, &created); err != nil {
			return nil, err
		}
		if r.DueAt, err = time.Parse(time.RFC3339, due); err != nil {
			return nil, fmt.Errorf("corrupt due_at on reminder %s: %w", r.ID, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("corrupt created_at on reminder %s: %w", r.ID, err)
		}
		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

func (s *Store) Close() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		log.Debug("wal checkpoint before close failed", "error", err)
	}
	return s.db.Close()
}
