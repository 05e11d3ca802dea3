package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bhavanapatidar/goalsaver/internal/models"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported audit drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS plan_audit (
    id             TEXT PRIMARY KEY,
    request_id     TEXT NOT NULL,
    kind           TEXT NOT NULL,
    risk_score     DOUBLE PRECISION NOT NULL,
    risk_category  TEXT NOT NULL,
    monthly_target DOUBLE PRECISION NOT NULL,
    payload        TEXT NOT NULL,
    created_at     BIGINT NOT NULL
)`

const indexSQL = `CREATE INDEX IF NOT EXISTS idx_plan_audit_created ON plan_audit(created_at)`

// Repository provides audit trail storage
type Repository struct {
	db     *sql.DB
	driver string
}

// Open connects to the audit database and checks it is reachable
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported audit driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// Migrate creates the audit table if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range []string{schemaSQL, indexSQL} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate audit schema: %w", err)
		}
	}
	return nil
}

// RecordPlan stores an audit record
func (r *Repository) RecordPlan(ctx context.Context, rec *models.AuditRecord) error {
	query := r.rebind(`
		INSERT INTO plan_audit (id, request_id, kind, risk_score, risk_category, monthly_target, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RequestID, string(rec.Kind), rec.RiskScore, string(rec.RiskCategory),
		rec.MonthlyTarget, string(rec.Payload), rec.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// PruneBefore deletes audit records created before cutoff
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.rebind(`DELETE FROM plan_audit WHERE created_at < ?`)
	res, err := r.db.ExecContext(ctx, query, cutoff.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned audit entries: %w", err)
	}
	return n, nil
}

// FindByRequestID returns the audit records written for a request
func (r *Repository) FindByRequestID(ctx context.Context, requestID string) ([]models.AuditRecord, error) {
	query := r.rebind(`
		SELECT id, request_id, kind, risk_score, risk_category, monthly_target, payload, created_at
		FROM plan_audit
		WHERE request_id = ?
		ORDER BY created_at`)
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.AuditRecord
	for rows.Next() {
		var (
			rec      models.AuditRecord
			kind     string
			category string
			payload  string
			created  int64
		)
		if err := rows.Scan(&rec.ID, &rec.RequestID, &kind, &rec.RiskScore, &category,
			&rec.MonthlyTarget, &payload, &created); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		rec.Kind = models.AuditKind(kind)
		rec.RiskCategory = models.RiskCategory(category)
		rec.Payload = []byte(payload)
		rec.CreatedAt = time.Unix(created, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// rebind rewrites ? placeholders to $N for postgres
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
