package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courtsight-ai/courtsight/internal/domain"
)

// ─── Shared Audit Log ───────────────────────────────────────────────────────
// One table shared by the monitoring, policy, and worker modules.

func (d *DB) ensureAudit(ctx context.Context) error {
	return d.execAll(ctx, []string{
		`CREATE TABLE IF NOT EXISTS intelligence_audit (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_time          INTEGER NOT NULL,
			module            TEXT NOT NULL,
			status            TEXT NOT NULL,
			records_processed INTEGER NOT NULL DEFAULT 0,
			errors            TEXT,
			details           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_intelligence_audit_module
		 ON intelligence_audit(module)`,
		`CREATE INDEX IF NOT EXISTS idx_intelligence_audit_status
		 ON intelligence_audit(status)`,
	})
}

// RecordAudit persists one audit event.
func (d *DB) RecordAudit(ctx context.Context, rec domain.AuditRecord) error {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	insert := func() error {
		_, err := d.db.ExecContext(ctx,
			`INSERT INTO intelligence_audit (run_time, module, status, records_processed, errors, details)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			time.Now().Unix(), rec.Module, rec.Status, rec.RecordsProcessed,
			nullStr(rec.Errors), string(details),
		)
		return err
	}
	return d.withBootstrap(ctx, "intelligence_audit", d.ensureAudit, insert)
}

// AuditEntry is one persisted audit row, read back for observability.
type AuditEntry struct {
	ID               int64          `json:"id"`
	RunTime          time.Time      `json:"run_time"`
	Module           string         `json:"module"`
	Status           string         `json:"status"`
	RecordsProcessed int            `json:"records_processed"`
	Errors           string         `json:"errors,omitempty"`
	Details          map[string]any `json:"details,omitempty"`
}

// RecentAudit returns recent audit entries for a module, newest first.
func (d *DB) RecentAudit(ctx context.Context, module string, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []AuditEntry
	query := func() error {
		rows, err := d.db.QueryContext(ctx,
			`SELECT id, run_time, module, status, records_processed, errors, details
			 FROM intelligence_audit
			 WHERE module = ?
			 ORDER BY id DESC
			 LIMIT ?`,
			module, limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var e AuditEntry
			var runTime int64
			var errs, details sql.NullString
			if err := rows.Scan(&e.ID, &runTime, &e.Module, &e.Status,
				&e.RecordsProcessed, &errs, &details); err != nil {
				return fmt.Errorf("scan audit entry: %w", err)
			}
			e.RunTime = time.Unix(runTime, 0)
			if errs.Valid {
				e.Errors = errs.String
			}
			if details.Valid && details.String != "" {
				if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
					return fmt.Errorf("decode audit details: %w", err)
				}
			}
			entries = append(entries, e)
		}
		return rows.Err()
	}
	if err := d.withBootstrap(ctx, "intelligence_audit", d.ensureAudit, query); err != nil {
		return nil, err
	}
	return entries, nil
}
