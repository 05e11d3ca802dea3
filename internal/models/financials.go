package models

// FinancialGoals flags which savings goals the user is working towards
type FinancialGoals struct {
	EmergencyFund bool `json:"emergency_fund" yaml:"emergency_fund"`
	Retirement    bool `json:"retirement" yaml:"retirement"`
	MajorPurchase bool `json:"major_purchase" yaml:"major_purchase"`
}

// SpendingPattern holds the expected shares of spending per bucket
type SpendingPattern struct {
	Discretionary float64 `json:"discretionary" yaml:"discretionary"`
	Essential     float64 `json:"essential" yaml:"essential"`
	Investment    float64 `json:"investment" yaml:"investment"`
}

// UserFinancials is a validated snapshot of a user's financial data.
// Optional amounts are zero when the caller omitted them.
type UserFinancials struct {
	Age                 int             `json:"age" yaml:"age"`
	MonthlyIncome       float64         `json:"monthly_income" yaml:"monthly_income"`
	MonthlyExpenses     float64         `json:"monthly_expenses" yaml:"monthly_expenses"`
	CurrentSavings      float64         `json:"current_savings" yaml:"current_savings"`
	RiskTolerance       int             `json:"risk_tolerance" yaml:"risk_tolerance"`
	MonthlyDebtPayments float64         `json:"monthly_debt_payments" yaml:"monthly_debt_payments"`
	EmergencyFund       float64         `json:"emergency_fund" yaml:"emergency_fund"`
	RetirementSavings   float64         `json:"retirement_savings" yaml:"retirement_savings"`
	FinancialGoals      FinancialGoals  `json:"financial_goals" yaml:"financial_goals"`
	SpendingPattern     SpendingPattern `json:"spending_pattern" yaml:"spending_pattern"`
}
