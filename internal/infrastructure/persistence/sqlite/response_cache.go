package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

// ResponseStore guarda respuestas HTTP cacheadas con su fecha de expiración.
type ResponseStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewResponseStore abre (o crea) la base en dbPath. La expiración se mide con
// clock; nil usa el reloj real.
func NewResponseStore(dbPath string, clock clockwork.Clock) (*ResponseStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ResponseStore{db: db, clock: clock}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	expires_at INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_expires_at ON responses(expires_at);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: migrate responses: %w", err)
	}
	return nil
}

func (s *ResponseStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns a stored body that has not expired yet.
func (s *ResponseStore) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	const query = `
SELECT body, expires_at
FROM responses
WHERE key = ? AND expires_at > ?
LIMIT 1;
`

	row := s.db.QueryRowContext(ctx, query, key, s.clock.Now().UnixMilli())

	var body []byte
	var expiresAt int64
	if err := row.Scan(&body, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("sqlite: get response: %w", err)
	}

	return body, time.UnixMilli(expiresAt), true, nil
}

func (s *ResponseStore) Put(ctx context.Context, key string, body []byte, expiresAt time.Time) error {
	const stmt = `
INSERT INTO responses (key, body, expires_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	body = excluded.body,
	expires_at = excluded.expires_at,
	updated_at = excluded.updated_at;
`

	if _, err := s.db.ExecContext(ctx, stmt, key, body, expiresAt.UnixMilli(), s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite: put response: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *ResponseStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at <= ?;`, s.clock.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sqlite: purge responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: purge rows affected: %w", err)
	}
	return n, nil
}
