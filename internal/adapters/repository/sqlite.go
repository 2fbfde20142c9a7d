package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	model "github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_records (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT    NOT NULL UNIQUE,
    recorded_at    INTEGER NOT NULL,
    total_attempts INTEGER NOT NULL CHECK (total_attempts > 0),
    total_makes    INTEGER NOT NULL,
    payload        TEXT    NOT NULL
);
`

// SQLiteStore persists history in a SQLite database so records survive
// restarts. Ordering follows insertion sequence, newest first.
type SQLiteStore struct {
	mu    sync.RWMutex
	sqlDB *sql.DB
}

// OpenSQLite opens (or creates) the history database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history db path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &SQLiteStore{sqlDB: sqlDB}
	metrics.UpdateHistorySize(s.Count(ctx))
	return s, nil
}

// Close closes the SQLite handle. Later calls fail with ErrClosed.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// Prepend stores rec as the newest record.
func (s *SQLiteStore) Prepend(ctx context.Context, rec model.SessionRecord) error {
	db, err := s.ready(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO session_records (id, recorded_at, total_attempts, total_makes, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID.String(),
		rec.Date.UTC().UnixMilli(),
		rec.Stats.TotalAttempts,
		rec.Stats.TotalMakes,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert session record: %w", err)
	}
	metrics.UpdateHistorySize(s.Count(ctx))
	return nil
}

// List returns every record, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]model.SessionRecord, error) {
	db, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT payload FROM session_records ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	defer rows.Close()

	records := make([]model.SessionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session records: %w", err)
	}
	return records, nil
}

// Get returns one record by id.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (model.SessionRecord, error) {
	db, err := s.ready(ctx)
	if err != nil {
		return model.SessionRecord{}, err
	}
	row := db.QueryRowContext(ctx, `SELECT payload FROM session_records WHERE id = ?`, id.String())
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionRecord{}, ErrNotFound
	}
	return rec, err
}

// Count returns the number of stored records; errors count as zero.
func (s *SQLiteStore) Count(ctx context.Context) int {
	db, err := s.ready(ctx)
	if err != nil {
		return 0
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_records`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// ready returns the open handle, or ErrClosed once Close has run.
func (s *SQLiteStore) ready(ctx context.Context) (*sql.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrClosed
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sqlDB == nil {
		return nil, ErrClosed
	}
	return s.sqlDB, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.SessionRecord, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SessionRecord{}, err
		}
		return model.SessionRecord{}, fmt.Errorf("scan session record: %w", err)
	}
	var rec model.SessionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.SessionRecord{}, fmt.Errorf("decode session record: %w", err)
	}
	return rec, nil
}
