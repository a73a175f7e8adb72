// Package sqlite provides SQLite-based persistent storage for courtsight:
// the monitoring snapshot log, the retrain job queue, the shared audit
// log, and the prediction-result tables the metrics source reads.
// Uses WAL mode for concurrent reads and crash-safe writes.
//
// Schemas are provisioned lazily: every operation classifies a
// missing-table error, bootstraps the owning table idempotently, and
// retries exactly once. Any other error propagates unmodified.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// DB wraps a SQLite connection. It implements domain.TrendStore,
// domain.JobStore, domain.MetricsSource, and domain.AuditSink.
type DB struct {
	db        *sql.DB
	artifacts domain.ArtifactLister
}

// Open creates or opens the SQLite database at dir/courtsight.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
// No tables are created here — see the ensure* bootstraps.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "courtsight.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	return &DB{db: db}, nil
}

// SetArtifactLister wires the model artifact directory used to capture
// snapshots on job create and finalize. Optional; without it jobs
// record an unavailable snapshot.
func (d *DB) SetArtifactLister(l domain.ArtifactLister) { d.artifacts = l }

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// ─── Self-Healing Schema ────────────────────────────────────────────────────

// isMissingTable classifies the driver's missing-table error for the
// named table. Kept in one place so the rest of the store never
// string-matches error text.
func isMissingTable(err error, table string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") && strings.Contains(msg, table)
}

// isUniqueViolation classifies a unique-index conflict.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// withBootstrap runs op, and if it failed because table is not yet
// provisioned, bootstraps the schema and retries the operation exactly
// once. Any other error propagates unmodified.
func (d *DB) withBootstrap(ctx context.Context, table string, ensure func(context.Context) error, op func() error) error {
	err := op()
	if err == nil || !isMissingTable(err, table) {
		return err
	}
	if berr := ensure(ctx); berr != nil {
		return fmt.Errorf("bootstrap %s: %w", table, berr)
	}
	return op()
}

// execAll runs a list of DDL statements in order.
func (d *DB) execAll(ctx context.Context, stmts []string) error {
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// addColumnIfMissing backfills a column added after a table already
// shipped, so pre-existing databases keep working without a migration
// tool.
func (d *DB) addColumnIfMissing(ctx context.Context, table, column, decl string) error {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
