package migration

import (
	"cmp"
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"placeprep/internal/database"
)

//go:embed sql/*.sql
var embedded embed.FS

// lockKey identifies this schema's pg_advisory_lock.
const lockKey int64 = 746295114

const createLedger = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// Runner applies V<version>__<name>.sql files in version order, once each.
// FS wins over Dir; with neither set the embedded migrations are used.
type Runner struct {
	Dir string
	FS  fs.FS
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

type appliedMigration struct {
	Version   int64
	Checksum  string
	AppliedAt time.Time
}

// Status is one known migration and, when applied, its recorded time.
type Status struct {
	Version   int64
	Name      string
	AppliedAt *time.Time
	// Drifted is set when the applied checksum no longer matches the file.
	Drifted bool
}

// session is the subset of *sql.DB and *sql.Conn the runner needs.
type session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Run applies pending migrations while holding the advisory lock, so
// concurrent starts apply each file once. An applied file whose contents
// changed is an error.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	migs, err := loadMigrations(r.source())
	if err != nil || len(migs) == 0 {
		return err
	}

	// pg_advisory_lock is session scoped: every statement below runs on
	// the connection that holds it.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("pin connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	applied, err := readLedger(ctx, conn)
	if err != nil {
		return err
	}
	for _, m := range migs {
		a, done := applied[m.Version]
		switch {
		case done && a.Checksum != m.Checksum:
			return fmt.Errorf("migration %d (%s) changed after it was applied", m.Version, m.Filename)
		case done:
			continue
		}
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
	}
	return nil
}

// Status lists every migration in the source with what the database has
// recorded for it, in version order.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]Status, error) {
	if db == nil {
		return nil, database.ErrNilDB
	}
	migs, err := loadMigrations(r.source())
	if err != nil {
		return nil, err
	}
	applied, err := readLedger(ctx, db)
	if err != nil {
		return nil, err
	}
	return mergeStatus(migs, applied), nil
}

func mergeStatus(migs []Migration, applied map[int64]appliedMigration) []Status {
	out := make([]Status, len(migs))
	for i, m := range migs {
		out[i] = Status{Version: m.Version, Name: m.Name}
		if a, ok := applied[m.Version]; ok {
			at := a.AppliedAt
			out[i].AppliedAt = &at
			out[i].Drifted = a.Checksum != m.Checksum
		}
	}
	return out
}

func (r Runner) source() fs.FS {
	switch {
	case r.FS != nil:
		return r.FS
	case strings.TrimSpace(r.Dir) != "":
		return os.DirFS(r.Dir)
	}
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		return embedded
	}
	return sub
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, ok, err := readMigration(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			migs = append(migs, m)
		}
	}

	slices.SortFunc(migs, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version: %d (%s, %s)", migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

// readMigration parses one file. Names not matching V<n>__<name>.sql are
// skipped with ok=false.
func readMigration(fsys fs.FS, filename string) (Migration, bool, error) {
	parts := fileRe.FindStringSubmatch(filename)
	if parts == nil {
		return Migration{}, false, nil
	}
	version, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Migration{}, false, fmt.Errorf("invalid migration version: %s", filename)
	}

	raw, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return Migration{}, false, err
	}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return Migration{}, false, fmt.Errorf("empty migration file: %s", filename)
	}

	sum := sha256.Sum256([]byte(body))
	return Migration{
		Version:  version,
		Name:     parts[2],
		Filename: filename,
		SQL:      body,
		Checksum: hex.EncodeToString(sum[:]),
	}, true, nil
}

func readLedger(ctx context.Context, s session) (map[int64]appliedMigration, error) {
	if _, err := s.ExecContext(ctx, createLedger); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	rows, err := s.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]appliedMigration{}
	for rows.Next() {
		var a appliedMigration
		if err := rows.Scan(&a.Version, &a.Checksum, &a.AppliedAt); err != nil {
			return nil, err
		}
		out[a.Version] = a
	}
	return out, rows.Err()
}

// apply runs one migration and records it in the same transaction.
func apply(ctx context.Context, s session, m Migration) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return fmt.Errorf("record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}
