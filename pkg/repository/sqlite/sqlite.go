package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

const schema = `CREATE TABLE IF NOT EXISTS client_state (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
)`

// Slot keeps session slots in a local SQLite database
type Slot struct {
	db *sql.DB
}

var _ interfaces.SessionSlot = &Slot{}

// New opens (and creates if needed) the database at path
func New(ctx context.Context, path string) (*Slot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V(model.PathKey, path))
	}
	// a single connection serializes writers, which is all a one-user client needs
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite database", goerr.V(model.PathKey, path))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate sqlite database", goerr.V(model.PathKey, path))
	}

	return &Slot{db: db}, nil
}

func (s *Slot) Close() error {
	return s.db.Close()
}

func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load slot", goerr.V("key", key))
	}
	return data, nil
}

func (s *Slot) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC())
	if err != nil {
		return goerr.Wrap(err, "failed to save slot", goerr.V("key", key))
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, key); err != nil {
		return goerr.Wrap(err, "failed to delete slot", goerr.V("key", key))
	}
	return nil
}
