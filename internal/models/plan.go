package models

// RiskCategory is one of five ordered risk bands, most conservative first
type RiskCategory string

const (
	RiskConservative   RiskCategory = "Conservative"
	RiskModerate       RiskCategory = "Moderate"
	RiskBalanced       RiskCategory = "Balanced"
	RiskAggressive     RiskCategory = "Aggressive"
	RiskVeryAggressive RiskCategory = "Very Aggressive"
)

// RiskFactors holds the five sub-scores that make up a risk score
type RiskFactors struct {
	IncomeStability float64 `json:"income_stability"`
	ExpenseRatio    float64 `json:"expense_ratio"`
	SavingsRate     float64 `json:"savings_rate"`
	DebtRatio       float64 `json:"debt_ratio"`
	EmergencyFund   float64 `json:"emergency_fund"`
}

// Mean returns the unweighted average of the sub-scores
func (f RiskFactors) Mean() float64 {
	sum := f.IncomeStability + f.ExpenseRatio + f.SavingsRate + f.DebtRatio + f.EmergencyFund
	return sum / 5
}

// RiskProfile represents the derived risk assessment of a user
type RiskProfile struct {
	RiskScore    float64      `json:"risk_score"`
	RiskCategory RiskCategory `json:"risk_category"`
	RiskFactors  RiskFactors  `json:"risk_factors"`
}

// SavingsTargets represents monthly and weekly savings goals
type SavingsTargets struct {
	MonthlyTarget     float64 `json:"monthly_target"`
	WeeklyTarget      float64 `json:"weekly_target"`
	TargetSavingsRate float64 `json:"target_savings_rate"`
}

// WeeklyPlanEntry is one week of the savings plan
type WeeklyPlanEntry struct {
	Week            int      `json:"week"`
	TargetAmount    float64  `json:"target_amount"`
	Recommendations []string `json:"recommendations"`
}

// GoalName identifies a financial goal in the goal timelines
type GoalName string

const (
	GoalEmergencyFund GoalName = "emergency_fund"
	GoalRetirement    GoalName = "retirement"
	GoalMajorPurchase GoalName = "major_purchase"
)

// GoalTimeline estimates how long a goal takes at the monthly target
type GoalTimeline struct {
	TargetAmount       float64 `json:"target_amount"`
	MonthsToCompletion float64 `json:"months_to_completion"`
}

// SavingsPlan is the full response for a savings plan request
type SavingsPlan struct {
	RiskProfile    RiskProfile               `json:"risk_profile"`
	SavingsTargets SavingsTargets            `json:"savings_targets"`
	WeeklyPlan     []WeeklyPlanEntry         `json:"weekly_plan"`
	GoalTimelines  map[GoalName]GoalTimeline `json:"goal_timelines"`
}
