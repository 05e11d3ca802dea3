package advisor

import (
	"fmt"
	"math"

	"github.com/bhavanapatidar/goalsaver/internal/models"
)

const (
	discretionaryThreshold = 0.3
	essentialThreshold     = 0.7
	// share of the weekly target suggested as a discretionary spending cut
	discretionaryCutShare = 0.2
)

// Recommendation texts that do not depend on the weekly target
const (
	RecommendReviewEssentials     = "Review essential expenses for potential optimization"
	RecommendPrioritizeEmergency  = "Prioritize emergency fund contributions this week"
	recommendDiscretionaryCutTmpl = "Consider reducing discretionary spending by $%.2f this week"
)

// GenerateSavingsPlan computes the risk profile, savings targets, a four-week
// plan and goal timelines. Either the full plan or an error is returned.
func (a *Advisor) GenerateSavingsPlan(in models.UserFinancials) (*models.SavingsPlan, error) {
	profile, err := a.ComputeRiskProfile(in)
	if err != nil {
		return nil, err
	}

	targets, err := SavingsTargets(in, profile)
	if err != nil {
		return nil, err
	}

	weekly, err := a.weeklyPlan(in, targets)
	if err != nil {
		return nil, err
	}

	timelines, err := GoalTimelines(in, targets)
	if err != nil {
		return nil, err
	}

	return &models.SavingsPlan{
		RiskProfile:    *profile,
		SavingsTargets: targets,
		WeeklyPlan:     weekly,
		GoalTimelines:  timelines,
	}, nil
}

// SavingsTargets derives the monthly and weekly targets from the risk category
func SavingsTargets(in models.UserFinancials, profile *models.RiskProfile) (models.SavingsTargets, error) {
	rate, err := TargetSavingsRate(profile.RiskCategory)
	if err != nil {
		return models.SavingsTargets{}, err
	}

	monthly := in.MonthlyIncome * rate
	if !finite(monthly) {
		return models.SavingsTargets{}, nonFiniteError("monthly_target", monthly)
	}
	return models.SavingsTargets{
		MonthlyTarget:     monthly,
		WeeklyTarget:      monthly / PlanWeeks,
		TargetSavingsRate: rate,
	}, nil
}

func (a *Advisor) weeklyPlan(in models.UserFinancials, targets models.SavingsTargets) ([]models.WeeklyPlanEntry, error) {
	plan := make([]models.WeeklyPlanEntry, 0, PlanWeeks)
	for week := 1; week <= PlanWeeks; week++ {
		target := a.adjustWeek(targets.WeeklyTarget, in, week)
		if !finite(target) {
			return nil, nonFiniteError(fmt.Sprintf("week %d target", week), target)
		}
		plan = append(plan, models.WeeklyPlanEntry{
			Week:            week,
			TargetAmount:    target,
			Recommendations: Recommendations(target, in),
		})
	}
	return plan, nil
}

// Recommendations lists the advice for one week, in a fixed order:
// discretionary spending, essential expenses, goal priority.
func Recommendations(target float64, in models.UserFinancials) []string {
	recs := make([]string, 0, 3)
	if in.SpendingPattern.Discretionary > discretionaryThreshold {
		recs = append(recs, fmt.Sprintf(recommendDiscretionaryCutTmpl, target*discretionaryCutShare))
	}
	if in.SpendingPattern.Essential > essentialThreshold {
		recs = append(recs, RecommendReviewEssentials)
	}
	if in.FinancialGoals.EmergencyFund {
		recs = append(recs, RecommendPrioritizeEmergency)
	}
	return recs
}

// GoalTimelines estimates completion for each flagged goal. Major purchases
// have no target and never appear.
func GoalTimelines(in models.UserFinancials, targets models.SavingsTargets) (map[models.GoalName]models.GoalTimeline, error) {
	timelines := make(map[models.GoalName]models.GoalTimeline)
	goals := in.FinancialGoals
	if !goals.EmergencyFund && !goals.Retirement {
		return timelines, nil
	}

	if targets.MonthlyTarget <= 0 || !finite(targets.MonthlyTarget) {
		return nil, divisorError("monthly_target", targets.MonthlyTarget)
	}

	if goals.EmergencyFund {
		target := in.MonthlyExpenses * EmergencyFundMonths
		tl, err := timeline(models.GoalEmergencyFund, target, in.EmergencyFund, targets.MonthlyTarget)
		if err != nil {
			return nil, err
		}
		timelines[models.GoalEmergencyFund] = tl
	}
	if goals.Retirement {
		target := in.MonthlyIncome * 12 * RetirementIncomeMultiple
		tl, err := timeline(models.GoalRetirement, target, in.RetirementSavings, targets.MonthlyTarget)
		if err != nil {
			return nil, err
		}
		timelines[models.GoalRetirement] = tl
	}
	return timelines, nil
}

func timeline(goal models.GoalName, target, progress, monthly float64) (models.GoalTimeline, error) {
	if !finite(target) {
		return models.GoalTimeline{}, nonFiniteError(string(goal)+" target_amount", target)
	}
	months := math.Max(0, (target-progress)/monthly)
	if !finite(months) {
		return models.GoalTimeline{}, nonFiniteError(string(goal)+" months_to_completion", months)
	}
	return models.GoalTimeline{TargetAmount: target, MonthsToCompletion: months}, nil
}
