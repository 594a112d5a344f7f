// Package db opens the SQLite store and keeps its schema current from the
// versioned scripts embedded under migrations/ (NNNN_name.up.sql / .down.sql).
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"
)

const (
	defaultPath = "app.db"
	// noTxMarker at the top of a script runs it outside a transaction.
	noTxMarker = "-- NO_TX"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var scriptName = regexp.MustCompile(`^(\d{4})_(.+)\.(up|down)\.sql$`)

// Open opens (or creates) the database at path and applies pending migrations.
//
// The pool is capped at one connection. SQLite has a single writer, and every
// compare-and-transition update and ledger batch in the process relies on
// statements never interleaving. Shared-cache in-memory databases also need it.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = defaultPath
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d.SetMaxOpenConns(1)
	if err := prepare(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func prepare(d *sql.DB) error {
	if err := d.Ping(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	// WAL is refused by in-memory databases; that is fine.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	for _, pragma := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
		if _, err := d.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return migrateUp(d)
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
// fn must only use tx: the pool has one connection and it is held by tx.
func WithTx(ctx context.Context, d *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// RollbackLast reverts the most recently applied migration using its down script.
// It is a no-op when nothing has been applied.
func RollbackLast(d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	if err := ensureVersionTable(d); err != nil {
		return err
	}
	var version int
	err := d.QueryRow(`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	scripts, err := loadScripts()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(scripts, func(s script) bool { return s.version == version })
	if i < 0 || scripts[i].down == "" {
		return fmt.Errorf("no down migration for version %04d", version)
	}
	return run(d, scripts[i].down, `DELETE FROM schema_migrations WHERE version = ?`, version)
}

type script struct {
	version int
	name    string
	up      string
	down    string
}

// loadScripts returns the embedded migrations ordered by version.
func loadScripts() ([]script, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	byVersion := map[int]*script{}
	for _, e := range entries {
		m := scriptName.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		v, _ := strconv.Atoi(m[1])
		s := byVersion[v]
		if s == nil {
			s = &script{version: v, name: m[2]}
			byVersion[v] = s
		}
		body, err := migrationsFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, err
		}
		if m[3] == "up" {
			s.up = string(body)
		} else {
			s.down = string(body)
		}
	}

	out := make([]script, 0, len(byVersion))
	for _, s := range byVersion {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b script) int { return a.version - b.version })
	return out, nil
}

func ensureVersionTable(d *sql.DB) error {
	_, err := d.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
    )`)
	return err
}

func migrateUp(d *sql.DB) error {
	if err := ensureVersionTable(d); err != nil {
		return err
	}
	scripts, err := loadScripts()
	if err != nil {
		return err
	}

	var applied []int
	rows, err := d.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied = append(applied, v)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, s := range scripts {
		if slices.Contains(applied, s.version) {
			continue
		}
		if strings.TrimSpace(s.up) == "" {
			return fmt.Errorf("missing up migration for version %04d", s.version)
		}
		if err := run(d, s.up, `INSERT INTO schema_migrations(version) VALUES(?)`, s.version); err != nil {
			return fmt.Errorf("migration %04d_%s: %w", s.version, s.name, err)
		}
	}
	return nil
}

// run executes a migration script and then the bookkeeping statement, inside one
// transaction unless the script opts out with noTxMarker.
func run(d *sql.DB, text, record string, version int) error {
	if strings.HasPrefix(strings.TrimSpace(text), noTxMarker) {
		if _, err := d.Exec(text); err != nil {
			return err
		}
		_, err := d.Exec(record, version)
		return err
	}
	return WithTx(context.Background(), d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(text); err != nil {
			return err
		}
		_, err := tx.Exec(record, version)
		return err
	})
}
