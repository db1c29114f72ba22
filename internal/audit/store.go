package audit

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
	correlation_id TEXT NOT NULL PRIMARY KEY,
	timestamp      TEXT NOT NULL,
	action         TEXT NOT NULL,
	args           TEXT,
	duration_ms    INTEGER NOT NULL,
	success        INTEGER NOT NULL,
	error_code     TEXT,
	error_message  TEXT,
	error_detail   TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_entries (timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_success ON audit_entries (success);
`

// Store persists audit entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("audit store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store at %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping audit store at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveBatch writes entries in a single transaction. Entries whose
// correlation ID is already stored are ignored.
func (s *Store) SaveBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO audit_entries
		(correlation_id, timestamp, action, args, duration_ms, success, error_code, error_message, error_detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		args, err := marshalNullable(e.Args)
		if err != nil {
			return fmt.Errorf("failed to encode args for %s: %w", e.CorrelationID, err)
		}
		detail, err := marshalNullable(e.ErrorDetail)
		if err != nil {
			return fmt.Errorf("failed to encode error detail for %s: %w", e.CorrelationID, err)
		}
		if _, err := stmt.Exec(
			e.CorrelationID,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			e.Action,
			args,
			e.DurationMs,
			e.Success,
			nullString(e.ErrorCode),
			nullString(e.ErrorMessage),
			detail,
		); err != nil {
			return fmt.Errorf("failed to insert %s: %w", e.CorrelationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit batch: %w", err)
	}
	return nil
}

// Query selects stored entries.
type Query struct {
	Limit      int  // 0 means 50
	FailedOnly bool // only entries with success = false
}

// List returns the newest entries matching q, newest first.
func (s *Store) List(q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT correlation_id, timestamp, action, args, duration_ms, success, error_code, error_message, error_detail
		FROM audit_entries`
	if q.FailedOnly {
		query += ` WHERE success = 0`
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                          Entry
			ts                         string
			args, code, message, detail sql.NullString
		)
		if err := rows.Scan(&e.CorrelationID, &ts, &e.Action, &args, &e.DurationMs, &e.Success, &code, &message, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("invalid timestamp %q for %s: %w", ts, e.CorrelationID, err)
		}
		if args.Valid {
			if err := json.Unmarshal([]byte(args.String), &e.Args); err != nil {
				return nil, fmt.Errorf("invalid args for %s: %w", e.CorrelationID, err)
			}
		}
		if detail.Valid {
			if err := json.Unmarshal([]byte(detail.String), &e.ErrorDetail); err != nil {
				return nil, fmt.Errorf("invalid error detail for %s: %w", e.CorrelationID, err)
			}
		}
		e.ErrorCode = code.String
		e.ErrorMessage = message.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalNullable(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
