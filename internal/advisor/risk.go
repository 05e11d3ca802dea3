package advisor

import (
	"fmt"
	"math"

	"github.com/bhavanapatidar/goalsaver/internal/models"
)

// Lower bounds of the risk bands, inclusive
const (
	conservativeThreshold = 0.8
	moderateThreshold     = 0.6
	balancedThreshold     = 0.4
	aggressiveThreshold   = 0.2
)

var targetRates = map[models.RiskCategory]float64{
	models.RiskConservative:   0.30,
	models.RiskModerate:       0.25,
	models.RiskBalanced:       0.20,
	models.RiskAggressive:     0.15,
	models.RiskVeryAggressive: 0.10,
}

// ComputeRiskProfile scores the user's finances and assigns a risk category.
// Savings rate and risk score are not clamped below zero.
func (a *Advisor) ComputeRiskProfile(in models.UserFinancials) (*models.RiskProfile, error) {
	if in.MonthlyIncome <= 0 {
		return nil, divisorError("monthly_income", in.MonthlyIncome)
	}
	if in.MonthlyExpenses <= 0 {
		return nil, divisorError("monthly_expenses", in.MonthlyExpenses)
	}

	factors := models.RiskFactors{
		IncomeStability: a.incomeStability(in),
		ExpenseRatio:    math.Min(in.MonthlyExpenses/in.MonthlyIncome, 1.0),
		SavingsRate:     math.Min((in.MonthlyIncome-in.MonthlyExpenses)/in.MonthlyIncome, 1.0),
		DebtRatio:       math.Min(in.MonthlyDebtPayments/in.MonthlyIncome, 1.0),
		EmergencyFund:   math.Min(in.EmergencyFund/(in.MonthlyExpenses*EmergencyFundMonths), 1.0),
	}

	score := factors.Mean()
	if !finite(score) {
		return nil, fmt.Errorf("%w: risk score is not finite", ErrNonPositiveDivisor)
	}

	return &models.RiskProfile{
		RiskScore:    score,
		RiskCategory: Categorize(score),
		RiskFactors:  factors,
	}, nil
}

// Categorize maps a risk score to its band. Scores on a boundary go to the
// more conservative band.
func Categorize(score float64) models.RiskCategory {
	switch {
	case score >= conservativeThreshold:
		return models.RiskConservative
	case score >= moderateThreshold:
		return models.RiskModerate
	case score >= balancedThreshold:
		return models.RiskBalanced
	case score >= aggressiveThreshold:
		return models.RiskAggressive
	default:
		return models.RiskVeryAggressive
	}
}

// TargetSavingsRate returns the share of income to save for a risk category
func TargetSavingsRate(category models.RiskCategory) (float64, error) {
	rate, ok := targetRates[category]
	if !ok {
		return 0, fmt.Errorf("unknown risk category %q", category)
	}
	return rate, nil
}
