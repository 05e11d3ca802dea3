// Package advisor turns a snapshot of a user's finances into a risk profile
// and a four-week savings plan. All computation is pure: an Advisor holds no
// per-request state and may be shared between goroutines.
package advisor

import (
	"errors"
	"fmt"
	"math"

	"github.com/bhavanapatidar/goalsaver/internal/models"
)

// ErrNonPositiveDivisor is returned when an input used as a divisor is zero
// or negative, so the result would be NaN or infinite.
var ErrNonPositiveDivisor = errors.New("invalid input: non-positive divisor")

// DefaultIncomeStability is the income stability sub-score used when no
// estimator is configured. It is not derived from the input.
const DefaultIncomeStability = 0.8

const (
	// EmergencyFundMonths is the number of months of expenses an emergency fund should cover
	EmergencyFundMonths = 6
	// RetirementIncomeMultiple is the retirement target in years of income
	RetirementIncomeMultiple = 25
	// PlanWeeks is the length of a savings plan
	PlanWeeks = 4
)

// IncomeStabilityFunc estimates the income stability sub-score in [0,1]
type IncomeStabilityFunc func(in models.UserFinancials) float64

// WeeklyAdjustment returns the target for a given week of the plan
type WeeklyAdjustment func(base float64, in models.UserFinancials, week int) float64

// ConstantIncomeStability always reports DefaultIncomeStability
func ConstantIncomeStability(models.UserFinancials) float64 {
	return DefaultIncomeStability
}

// NoAdjustment keeps every week at the base weekly target
func NoAdjustment(base float64, _ models.UserFinancials, _ int) float64 {
	return base
}

// Advisor computes risk profiles and savings plans
type Advisor struct {
	incomeStability IncomeStabilityFunc
	adjustWeek      WeeklyAdjustment
}

// Option configures an Advisor
type Option func(*Advisor)

// WithIncomeStability replaces the income stability estimator
func WithIncomeStability(fn IncomeStabilityFunc) Option {
	return func(a *Advisor) {
		if fn != nil {
			a.incomeStability = fn
		}
	}
}

// WithWeeklyAdjustment replaces the weekly target adjustment
func WithWeeklyAdjustment(fn WeeklyAdjustment) Option {
	return func(a *Advisor) {
		if fn != nil {
			a.adjustWeek = fn
		}
	}
}

// New initializes a new advisor
func New(opts ...Option) *Advisor {
	a := &Advisor{
		incomeStability: ConstantIncomeStability,
		adjustWeek:      NoAdjustment,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func divisorError(field string, value float64) error {
	return fmt.Errorf("%w: %s is %v", ErrNonPositiveDivisor, field, value)
}

// nonFiniteError reports an intermediate value that overflowed
func nonFiniteError(field string, value float64) error {
	return fmt.Errorf("%w: %s is %v", ErrNonPositiveDivisor, field, value)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
