package render

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/bhavanapatidar/goalsaver/internal/models"
)

// goalOrder fixes the output order of goal timelines
var goalOrder = []models.GoalName{models.GoalEmergencyFund, models.GoalRetirement}

// SavingsPlanXML renders a savings plan as an XML document
func SavingsPlanXML(plan *models.SavingsPlan) ([]byte, error) {
	doc := newDocument()
	root := doc.CreateElement("SavingsPlan")

	writeRiskProfile(root.CreateElement("RiskProfile"), &plan.RiskProfile)

	targets := root.CreateElement("SavingsTargets")
	targets.CreateElement("MonthlyTarget").SetText(Money(plan.SavingsTargets.MonthlyTarget))
	targets.CreateElement("WeeklyTarget").SetText(Money(plan.SavingsTargets.WeeklyTarget))
	targets.CreateElement("TargetSavingsRate").SetText(Ratio(plan.SavingsTargets.TargetSavingsRate))

	weekly := root.CreateElement("WeeklyPlan")
	for _, entry := range plan.WeeklyPlan {
		week := weekly.CreateElement("Week")
		week.CreateAttr("number", strconv.Itoa(entry.Week))
		week.CreateElement("TargetAmount").SetText(Money(entry.TargetAmount))
		recs := week.CreateElement("Recommendations")
		for _, rec := range entry.Recommendations {
			recs.CreateElement("Recommendation").SetText(rec)
		}
	}

	timelines := root.CreateElement("GoalTimelines")
	for _, name := range goalOrder {
		tl, ok := plan.GoalTimelines[name]
		if !ok {
			continue
		}
		goal := timelines.CreateElement("Goal")
		goal.CreateAttr("name", string(name))
		goal.CreateElement("TargetAmount").SetText(Money(tl.TargetAmount))
		goal.CreateElement("MonthsToCompletion").SetText(Ratio(tl.MonthsToCompletion))
	}

	return writeDocument(doc)
}

// RiskProfileXML renders a risk profile as an XML document
func RiskProfileXML(profile *models.RiskProfile) ([]byte, error) {
	doc := newDocument()
	writeRiskProfile(doc.CreateElement("RiskProfile"), profile)
	return writeDocument(doc)
}

func writeRiskProfile(el *etree.Element, profile *models.RiskProfile) {
	el.CreateElement("RiskScore").SetText(Ratio(profile.RiskScore))
	el.CreateElement("RiskCategory").SetText(string(profile.RiskCategory))

	f := profile.RiskFactors
	factors := el.CreateElement("RiskFactors")
	factors.CreateElement("IncomeStability").SetText(Ratio(f.IncomeStability))
	factors.CreateElement("ExpenseRatio").SetText(Ratio(f.ExpenseRatio))
	factors.CreateElement("SavingsRate").SetText(Ratio(f.SavingsRate))
	factors.CreateElement("DebtRatio").SetText(Ratio(f.DebtRatio))
	factors.CreateElement("EmergencyFund").SetText(Ratio(f.EmergencyFund))
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func writeDocument(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write XML: %w", err)
	}
	return out, nil
}
