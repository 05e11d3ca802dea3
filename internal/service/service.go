package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bhavanapatidar/goalsaver/internal/advisor"
	"github.com/bhavanapatidar/goalsaver/internal/models"
	"github.com/bhavanapatidar/goalsaver/internal/reqid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	computationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_computations_total",
			Help: "Total number of successful advisor computations",
		},
		[]string{"kind", "risk_category"},
	)

	computationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_computation_failures_total",
			Help: "Total number of failed advisor computations",
		},
		[]string{"kind", "reason"},
	)
)

// AuditStore persists computed responses
type AuditStore interface {
	RecordPlan(ctx context.Context, rec *models.AuditRecord) error
}

// Service handles business logic
type Service struct {
	advisor *advisor.Advisor
	audit   AuditStore
	log     *logrus.Logger
	now     func() time.Time
}

// NewService initializes a new service. audit may be nil.
func NewService(adv *advisor.Advisor, audit AuditStore, log *logrus.Logger) *Service {
	return &Service{advisor: adv, audit: audit, log: log, now: time.Now}
}

// GenerateSavingsPlan computes a savings plan for the user
func (s *Service) GenerateSavingsPlan(ctx context.Context, in models.UserFinancials) (*models.SavingsPlan, error) {
	plan, err := s.advisor.GenerateSavingsPlan(in)
	if err != nil {
		s.countFailure(models.AuditSavingsPlan, err)
		return nil, fmt.Errorf("failed to generate savings plan: %w", err)
	}

	profile := plan.RiskProfile
	computationsTotal.WithLabelValues(string(models.AuditSavingsPlan), string(profile.RiskCategory)).Inc()
	s.record(ctx, models.AuditSavingsPlan, profile, plan.SavingsTargets.MonthlyTarget, plan)

	s.log.WithFields(logrus.Fields{
		"request_id":     reqid.FromContext(ctx),
		"risk_category":  profile.RiskCategory,
		"monthly_target": plan.SavingsTargets.MonthlyTarget,
		"goals":          len(plan.GoalTimelines),
	}).Info("Savings plan generated")
	return plan, nil
}

// ComputeRiskProfile computes the user's risk profile
func (s *Service) ComputeRiskProfile(ctx context.Context, in models.UserFinancials) (*models.RiskProfile, error) {
	profile, err := s.advisor.ComputeRiskProfile(in)
	if err != nil {
		s.countFailure(models.AuditRiskProfile, err)
		return nil, fmt.Errorf("failed to compute risk profile: %w", err)
	}

	computationsTotal.WithLabelValues(string(models.AuditRiskProfile), string(profile.RiskCategory)).Inc()
	s.record(ctx, models.AuditRiskProfile, *profile, 0, profile)

	s.log.WithFields(logrus.Fields{
		"request_id":    reqid.FromContext(ctx),
		"risk_category": profile.RiskCategory,
		"risk_score":    profile.RiskScore,
	}).Info("Risk profile computed")
	return profile, nil
}

func (s *Service) countFailure(kind models.AuditKind, err error) {
	reason := "internal"
	if errors.Is(err, advisor.ErrNonPositiveDivisor) {
		reason = "non_positive_divisor"
	}
	computationFailuresTotal.WithLabelValues(string(kind), reason).Inc()
}

// record writes an audit entry. Audit failures never fail the request.
func (s *Service) record(ctx context.Context, kind models.AuditKind, profile models.RiskProfile, monthlyTarget float64, payload any) {
	if s.audit == nil {
		return
	}

	requestID := reqid.FromContext(ctx)
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.WithField("request_id", requestID).Warnf("Failed to encode audit payload: %v", err)
		return
	}

	rec := &models.AuditRecord{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		Kind:          kind,
		RiskScore:     profile.RiskScore,
		RiskCategory:  profile.RiskCategory,
		MonthlyTarget: monthlyTarget,
		Payload:       body,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.audit.RecordPlan(ctx, rec); err != nil {
		s.log.WithField("request_id", requestID).Warnf("Failed to record audit entry: %v", err)
	}
}
