package render

import (
	"fmt"
	"strings"

	"github.com/bhavanapatidar/goalsaver/internal/models"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ColorBorder = lipgloss.Color("#282726")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	adviceStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

var titleCase = cases.Title(language.English)

// GoalTitle turns a goal key like "emergency_fund" into "Emergency Fund"
func GoalTitle(name models.GoalName) string {
	return titleCase.String(strings.ReplaceAll(string(name), "_", " "))
}

// RiskProfileText renders a risk profile for the terminal
func RiskProfileText(profile *models.RiskProfile) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Risk Profile"))
	b.WriteString("\n")
	writeRiskSection(&b, profile)

	f := profile.RiskFactors
	rows := []struct {
		label string
		value float64
	}{
		{"Income Stability", f.IncomeStability},
		{"Expense Ratio", f.ExpenseRatio},
		{"Savings Rate", f.SavingsRate},
		{"Debt Ratio", f.DebtRatio},
		{"Emergency Fund", f.EmergencyFund},
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Risk Factors:"))
	b.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-18s %s\n", row.label, Money(row.value))
	}
	return b.String()
}

// SavingsPlanText renders a savings plan for the terminal
func SavingsPlanText(plan *models.SavingsPlan) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Savings Plan"))
	b.WriteString("\n")
	writeRiskSection(&b, &plan.RiskProfile)

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Savings Targets:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Monthly Target: %s\n", amountStyle.Render("$"+Money(plan.SavingsTargets.MonthlyTarget)))
	fmt.Fprintf(&b, "Weekly Target: %s\n", amountStyle.Render("$"+Money(plan.SavingsTargets.WeeklyTarget)))

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Weekly Plan:"))
	b.WriteString("\n")
	for _, entry := range plan.WeeklyPlan {
		fmt.Fprintf(&b, "\nWeek %d:\n", entry.Week)
		fmt.Fprintf(&b, "Target Amount: %s\n", amountStyle.Render("$"+Money(entry.TargetAmount)))
		b.WriteString("Recommendations:\n")
		if len(entry.Recommendations) == 0 {
			b.WriteString(mutedStyle.Render("- none"))
			b.WriteString("\n")
		}
		for _, rec := range entry.Recommendations {
			b.WriteString(adviceStyle.Render("- " + rec))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Goal Timelines:"))
	b.WriteString("\n")
	for _, name := range goalOrder {
		tl, ok := plan.GoalTimelines[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", GoalTitle(name))
		fmt.Fprintf(&b, "Target Amount: %s\n", amountStyle.Render("$"+Money(tl.TargetAmount)))
		fmt.Fprintf(&b, "Months to Completion: %s\n", Months(tl.MonthsToCompletion))
	}
	return b.String()
}

func writeRiskSection(b *strings.Builder, profile *models.RiskProfile) {
	fmt.Fprintf(b, "Risk Category: %s\n", headerStyle.Render(string(profile.RiskCategory)))
	fmt.Fprintf(b, "Risk Score: %s\n", Money(profile.RiskScore))
}
