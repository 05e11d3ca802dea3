package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func validRequest() *FinancialsRequest {
	return &FinancialsRequest{
		Age:             ptr(30),
		MonthlyIncome:   ptr(5000.0),
		MonthlyExpenses: ptr(3000.0),
		CurrentSavings:  ptr(10000.0),
		RiskTolerance:   ptr(3),
		FinancialGoals: &GoalsRequest{
			EmergencyFund: ptr(true),
			Retirement:    ptr(true),
			MajorPurchase: ptr(false),
		},
		SpendingPattern: &SpendingRequest{
			Discretionary: ptr(0.3),
			Essential:     ptr(0.6),
			Investment:    ptr(0.1),
		},
	}
}

func TestUserFinancials_Valid(t *testing.T) {
	in, err := validRequest().UserFinancials()
	require.NoError(t, err)

	assert.Equal(t, 30, in.Age)
	assert.Equal(t, 5000.0, in.MonthlyIncome)
	assert.Equal(t, 3, in.RiskTolerance)
	assert.True(t, in.FinancialGoals.EmergencyFund)
	assert.False(t, in.FinancialGoals.MajorPurchase)
	assert.Equal(t, 0.6, in.SpendingPattern.Essential)
}

func TestUserFinancials_OptionalDefaultsToZero(t *testing.T) {
	in, err := validRequest().UserFinancials()
	require.NoError(t, err)

	assert.Zero(t, in.MonthlyDebtPayments)
	assert.Zero(t, in.EmergencyFund)
	assert.Zero(t, in.RetirementSavings)
}

func TestUserFinancials_FromJSON(t *testing.T) {
	body := `{"age":41,"monthly_income":7000,"monthly_expenses":4000,"current_savings":0,
		"risk_tolerance":5,"monthly_debt_payments":500,"emergency_fund":1200,"retirement_savings":90000,
		"financial_goals":{"emergency_fund":false,"retirement":true,"major_purchase":true},
		"spending_pattern":{"discretionary":0.4,"essential":0.5,"investment":0.1}}`

	var req FinancialsRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	in, err := req.UserFinancials()
	require.NoError(t, err)

	assert.Equal(t, 500.0, in.MonthlyDebtPayments)
	assert.Equal(t, 1200.0, in.EmergencyFund)
	assert.Equal(t, 90000.0, in.RetirementSavings)
	assert.True(t, in.FinancialGoals.MajorPurchase)
}

func TestUserFinancials_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *FinancialsRequest)
		field  string
		target error
	}{
		{"missing age", func(r *FinancialsRequest) { r.Age = nil }, "age", ErrMissingField},
		{"negative age", func(r *FinancialsRequest) { r.Age = ptr(-1) }, "age", ErrInvalidField},
		{"missing income", func(r *FinancialsRequest) { r.MonthlyIncome = nil }, "monthly_income", ErrMissingField},
		{"negative income", func(r *FinancialsRequest) { r.MonthlyIncome = ptr(-1.0) }, "monthly_income", ErrInvalidField},
		{"negative expenses", func(r *FinancialsRequest) { r.MonthlyExpenses = ptr(-5.0) }, "monthly_expenses", ErrInvalidField},
		{"missing savings", func(r *FinancialsRequest) { r.CurrentSavings = nil }, "current_savings", ErrMissingField},
		{"risk tolerance too low", func(r *FinancialsRequest) { r.RiskTolerance = ptr(0) }, "risk_tolerance", ErrInvalidField},
		{"risk tolerance too high", func(r *FinancialsRequest) { r.RiskTolerance = ptr(6) }, "risk_tolerance", ErrInvalidField},
		{"negative debt", func(r *FinancialsRequest) { r.MonthlyDebtPayments = ptr(-1.0) }, "monthly_debt_payments", ErrInvalidField},
		{"nan emergency fund", func(r *FinancialsRequest) { r.EmergencyFund = ptr(math.NaN()) }, "emergency_fund", ErrInvalidField},
		{"missing goals", func(r *FinancialsRequest) { r.FinancialGoals = nil }, "financial_goals", ErrMissingField},
		{"missing goal flag", func(r *FinancialsRequest) { r.FinancialGoals.Retirement = nil }, "financial_goals.retirement", ErrMissingField},
		{"missing spending", func(r *FinancialsRequest) { r.SpendingPattern = nil }, "spending_pattern", ErrMissingField},
		{"missing essential", func(r *FinancialsRequest) { r.SpendingPattern.Essential = nil }, "spending_pattern.essential", ErrMissingField},
		{"infinite discretionary", func(r *FinancialsRequest) { r.SpendingPattern.Discretionary = ptr(math.Inf(1)) }, "spending_pattern.discretionary", ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)

			_, err := req.UserFinancials()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestUserFinancials_ZeroIncomePassesValidation(t *testing.T) {
	req := validRequest()
	req.MonthlyIncome = ptr(0.0)

	in, err := req.UserFinancials()
	require.NoError(t, err)
	assert.Zero(t, in.MonthlyIncome)
}

func TestUserFinancials_CollectsAllErrors(t *testing.T) {
	_, err := (&FinancialsRequest{}).UserFinancials()

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 7)
	assert.Contains(t, err.Error(), "age: field required")
}

func TestRiskFactorsMean(t *testing.T) {
	f := RiskFactors{IncomeStability: 0.8, ExpenseRatio: 0.6, SavingsRate: 0.4}
	assert.InDelta(t, 0.36, f.Mean(), 1e-9)
}
