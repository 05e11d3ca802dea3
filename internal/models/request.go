package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validation errors
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)

// FieldError describes a single rejected field
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every rejected field of a request
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// Fields returns the messages for each rejected field
func (v ValidationErrors) Fields() []string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Error())
	}
	return msgs
}

// GoalsRequest is the wire form of FinancialGoals
type GoalsRequest struct {
	EmergencyFund *bool `json:"emergency_fund" yaml:"emergency_fund"`
	Retirement    *bool `json:"retirement" yaml:"retirement"`
	MajorPurchase *bool `json:"major_purchase" yaml:"major_purchase"`
}

// SpendingRequest is the wire form of SpendingPattern
type SpendingRequest struct {
	Discretionary *float64 `json:"discretionary" yaml:"discretionary"`
	Essential     *float64 `json:"essential" yaml:"essential"`
	Investment    *float64 `json:"investment" yaml:"investment"`
}

// FinancialsRequest is the wire form of UserFinancials. Pointer fields
// let validation tell a missing value from a zero value.
type FinancialsRequest struct {
	Age                 *int             `json:"age" yaml:"age"`
	MonthlyIncome       *float64         `json:"monthly_income" yaml:"monthly_income"`
	MonthlyExpenses     *float64         `json:"monthly_expenses" yaml:"monthly_expenses"`
	CurrentSavings      *float64         `json:"current_savings" yaml:"current_savings"`
	RiskTolerance       *int             `json:"risk_tolerance" yaml:"risk_tolerance"`
	MonthlyDebtPayments *float64         `json:"monthly_debt_payments" yaml:"monthly_debt_payments"`
	EmergencyFund       *float64         `json:"emergency_fund" yaml:"emergency_fund"`
	RetirementSavings   *float64         `json:"retirement_savings" yaml:"retirement_savings"`
	FinancialGoals      *GoalsRequest    `json:"financial_goals" yaml:"financial_goals"`
	SpendingPattern     *SpendingRequest `json:"spending_pattern" yaml:"spending_pattern"`
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) missing(field string) {
	v.errs = append(v.errs, &FieldError{Field: field, Reason: "field required", Err: ErrMissingField})
}

func (v *validator) invalid(field, reason string) {
	v.errs = append(v.errs, &FieldError{Field: field, Reason: reason, Err: ErrInvalidField})
}

func (v *validator) amount(field string, p *float64, required bool) float64 {
	if p == nil {
		if required {
			v.missing(field)
		}
		return 0
	}
	switch {
	case math.IsNaN(*p) || math.IsInf(*p, 0):
		v.invalid(field, "must be a finite number")
	case *p < 0:
		v.invalid(field, "must not be negative")
	}
	return *p
}

func (v *validator) fraction(field string, p *float64) float64 {
	if p == nil {
		v.missing(field)
		return 0
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		v.invalid(field, "must be a finite number")
	}
	return *p
}

func (v *validator) flag(field string, p *bool) bool {
	if p == nil {
		v.missing(field)
		return false
	}
	return *p
}

// UserFinancials validates the request and returns the core input record.
// A zero monthly income passes here; the advisor rejects it as a divisor.
func (r *FinancialsRequest) UserFinancials() (UserFinancials, error) {
	var v validator
	var out UserFinancials

	if r.Age == nil {
		v.missing("age")
	} else if *r.Age < 0 {
		v.invalid("age", "must not be negative")
	} else {
		out.Age = *r.Age
	}

	if r.RiskTolerance == nil {
		v.missing("risk_tolerance")
	} else if *r.RiskTolerance < 1 || *r.RiskTolerance > 5 {
		v.invalid("risk_tolerance", "must be between 1 and 5")
	} else {
		out.RiskTolerance = *r.RiskTolerance
	}

	out.MonthlyIncome = v.amount("monthly_income", r.MonthlyIncome, true)
	out.MonthlyExpenses = v.amount("monthly_expenses", r.MonthlyExpenses, true)
	out.CurrentSavings = v.amount("current_savings", r.CurrentSavings, true)
	out.MonthlyDebtPayments = v.amount("monthly_debt_payments", r.MonthlyDebtPayments, false)
	out.EmergencyFund = v.amount("emergency_fund", r.EmergencyFund, false)
	out.RetirementSavings = v.amount("retirement_savings", r.RetirementSavings, false)

	if r.FinancialGoals == nil {
		v.missing("financial_goals")
	} else {
		g := r.FinancialGoals
		out.FinancialGoals = FinancialGoals{
			EmergencyFund: v.flag("financial_goals.emergency_fund", g.EmergencyFund),
			Retirement:    v.flag("financial_goals.retirement", g.Retirement),
			MajorPurchase: v.flag("financial_goals.major_purchase", g.MajorPurchase),
		}
	}

	if r.SpendingPattern == nil {
		v.missing("spending_pattern")
	} else {
		s := r.SpendingPattern
		out.SpendingPattern = SpendingPattern{
			Discretionary: v.fraction("spending_pattern.discretionary", s.Discretionary),
			Essential:     v.fraction("spending_pattern.essential", s.Essential),
			Investment:    v.fraction("spending_pattern.investment", s.Investment),
		}
	}

	if len(v.errs) > 0 {
		return UserFinancials{}, v.errs
	}
	return out, nil
}
