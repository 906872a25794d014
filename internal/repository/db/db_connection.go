package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Options tunes the connection pool. Zero values keep the driver defaults,
// except for SQLite which is always pinned to a single connection.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// InitDB opens the database for the given dialect, ensures tables exist and pings it.
func InitDB(ctx context.Context, d Dialect, dsn string, opts Options) (*sql.DB, error) {
	if d == SQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}

	if d == SQLite {
		// SQLite is not great with many writers; the single connection also keeps
		// an in-memory database alive for the lifetime of the pool.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applySQLitePragmas(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	// Fail fast if the DB cannot be reached
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}

	if err := ensureSchema(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN makes timestamps round-trip through TEXT columns in a format the
// driver parses back into time.Time, and turns on foreign keys per connection.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "app.db"
	}
	var extra []string
	if !strings.Contains(dsn, "_time_format=") {
		extra = append(extra, "_time_format=sqlite")
	}
	if !strings.Contains(dsn, "foreign_keys") {
		extra = append(extra, "_pragma=foreign_keys(1)")
	}
	if len(extra) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(extra, "&")
}

func applySQLitePragmas(ctx context.Context, db *sql.DB) error {
	for _, p := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("set %s: %w", strings.TrimSuffix(p, ";"), err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range schemaFor(d) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
