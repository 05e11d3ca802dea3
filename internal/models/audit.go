package models

import "time"

// AuditKind tells which operation produced an audit record
type AuditKind string

const (
	AuditSavingsPlan AuditKind = "savings_plan"
	AuditRiskProfile AuditKind = "risk_profile"
)

// AuditRecord represents a computed response kept for the audit trail
type AuditRecord struct {
	ID            string       `json:"id"`
	RequestID     string       `json:"request_id"`
	Kind          AuditKind    `json:"kind"`
	RiskScore     float64      `json:"risk_score"`
	RiskCategory  RiskCategory `json:"risk_category"`
	MonthlyTarget float64      `json:"monthly_target"`
	Payload       []byte       `json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
}
