package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/roomrelay/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	client_id  INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	nickname   TEXT NOT NULL DEFAULT '',
	room       TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_client ON audit_events(client_id);
`

// SQLiteStore implements store.AuditStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup opens the database and runs a custom setup function instead of
// the built-in schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendAudit persists one audit entry.
func (s *SQLiteStore) AppendAudit(ctx context.Context, entry *store.AuditEntry) error {
	query := `
		INSERT INTO audit_events (kind, client_id, session_id, nickname, room, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		string(entry.Kind), entry.ClientID, entry.SessionID, entry.Nickname, entry.Room, entry.Detail,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// ListAudit returns the most recent entries in chronological order.
func (s *SQLiteStore) ListAudit(ctx context.Context, limit int) ([]*store.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, client_id, session_id, nickname, room, detail, created_at
		FROM audit_events
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	defer rows.Close()

	entries := []*store.AuditEntry{}
	for rows.Next() {
		var (
			e    store.AuditEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &kind, &e.ClientID, &e.SessionID, &e.Nickname, &e.Room, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Kind = store.AuditKind(kind)
		entries = append(entries, &e)
	}

	// Reverse to get chronological order
	for i := 0; i < len(entries)/2; i++ {
		entries[i], entries[len(entries)-1-i] = entries[len(entries)-1-i], entries[i]
	}

	return entries, rows.Err()
}
