// Package cache stores analysed signatures in a SQLite database so an
// unchanged file can be checked without running the analyser again.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/builtins"
	"github.com/funvibe/tower/internal/config"
)

// timeFormat is fixed width so created_at sorts as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	key        TEXT NOT NULL,
	file       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_key ON runs(key);
CREATE TABLE IF NOT EXISTS signatures (
	key       TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	name      TEXT NOT NULL,
	kind      TEXT NOT NULL,
	signature TEXT NOT NULL,
	PRIMARY KEY (key, seq)
);
`

// Entry is one cached top-level definition.
type Entry struct {
	Name      string
	Kind      string // "fn" or "struct"
	Signature string
}

// Hit is the result of a successful lookup.
type Hit struct {
	RunID   uuid.UUID
	Entries []Entry
}

// Cache is an open signature database.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// a single connection keeps writes serialised
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising cache %s: %w", path, err)
	}
	return &Cache{db: db, path: path}, nil
}

func (c *Cache) Path() string { return c.path }

func (c *Cache) Close() error { return c.db.Close() }

// Key fingerprints everything analysis depends on: the source text, the
// builtin signatures in scope and the tool version.
func Key(source string, table *builtins.Table) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(table.Signature()))
	h.Write([]byte{0})
	h.Write([]byte(config.Version))
	return hex.EncodeToString(h.Sum(nil))
}

// Entries lists the definitions of m in declaration order.
func Entries(m *ast.TypedModule) []Entry {
	entries := make([]Entry, 0, len(m.Names))
	for _, name := range m.Names {
		switch e := m.Elements[name].(type) {
		case *ast.TypedFunction:
			entries = append(entries, Entry{Name: name, Kind: "fn", Signature: e.String()})
		case *ast.TypeDecl:
			entries = append(entries, Entry{Name: name, Kind: "struct", Signature: e.String()})
		}
	}
	return entries
}

// Lookup returns the cached entries for key, or nil when there are none.
func (c *Cache) Lookup(ctx context.Context, key string) (*Hit, error) {
	var id string
	err := c.db.QueryRowContext(ctx,
		`SELECT id FROM runs WHERE key = ? ORDER BY created_at DESC LIMIT 1`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt run id %q: %w", id, err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT name, kind, signature FROM signatures WHERE key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	defer rows.Close()

	hit := &Hit{RunID: runID}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Kind, &e.Signature); err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		hit.Entries = append(hit.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return hit, nil
}

// Store records the signatures of m under key as a new run and returns the
// run id. Earlier signatures stored under the same key are replaced.
func (c *Cache) Store(ctx context.Context, key, file string, m *ast.TypedModule) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("writing cache: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM signatures WHERE key = ?`, key); err != nil {
		return uuid.Nil, fmt.Errorf("writing cache: %w", err)
	}
	for i, e := range Entries(m) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO signatures (key, seq, name, kind, signature) VALUES (?, ?, ?, ?, ?)`,
			key, i, e.Name, e.Kind, e.Signature); err != nil {
			return uuid.Nil, fmt.Errorf("writing cache: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, key, file, created_at) VALUES (?, ?, ?, ?)`,
		runID.String(), key, file, time.Now().UTC().Format(timeFormat)); err != nil {
		return uuid.Nil, fmt.Errorf("writing cache: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("writing cache: %w", err)
	}
	return runID, nil
}

// Clean removes every run and signature and returns how many runs were
// dropped.
func (c *Cache) Clean(ctx context.Context) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM signatures`); err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
