package mutations

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/propbag"
)

// ProjectFutureBenefitsHandler implements project_future_benefits
// (spec_full §4.8), supplemented from the teacher's own handler of the
// same name and retained as the writer of Policy.Projections.
type ProjectFutureBenefitsHandler struct{}

func (h ProjectFutureBenefitsHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if state.Dossier == nil {
		return []model.CalculationMessage{critical(model.CodeDossierNotFound, "No dossier exists")}
	}
	if len(state.Dossier.Policies) == 0 {
		return []model.CalculationMessage{critical(model.CodeNoPolicies, "Dossier has no policies")}
	}

	props := propbag.New(mutation.MutationProperties)
	startDate := props.Date("projection_start_date")
	endDate := props.Date("projection_end_date")

	if endDate <= startDate {
		return []model.CalculationMessage{critical(model.CodeInvalidDateRange, "projection_end_date must be after projection_start_date")}
	}

	if props.Decimal("projection_interval_months").IntPart() <= 0 {
		return []model.CalculationMessage{critical(model.CodeInvalidDateRange, "projection_interval_months must be a positive number of months")}
	}

	var msgs []model.CalculationMessage
	for _, p := range state.Dossier.Policies {
		if startDate < p.EmploymentStartDate {
			msgs = append(msgs, warning(model.CodeProjectionBeforeEmployment,
				fmt.Sprintf("Projection start date is before employment start date for policy %s", p.PolicyID)))
		}
	}
	return msgs
}

func (h ProjectFutureBenefitsHandler) Apply(state *model.Situation, mutation *model.Mutation, rates accrual.Provider) []model.CalculationMessage {
	props := propbag.New(mutation.MutationProperties)
	startDate, _ := parseDate(props.Date("projection_start_date"))
	endDate, _ := parseDate(props.Date("projection_end_date"))
	intervalMonths := int(props.Decimal("projection_interval_months").IntPart())

	policies := state.Dossier.Policies
	n := len(policies)
	accrualRates := accrualRatesFor(policies, rates)

	empStarts := make([]time.Time, n)
	for i, p := range policies {
		empStarts[i], _ = parseDate(p.EmploymentStartDate)
	}

	for i := range state.Dossier.Policies {
		state.Dossier.Policies[i].Projections = []model.Projection{}
	}

	for projDate := startDate; !projDate.After(endDate); projDate = projDate.AddDate(0, intervalMonths, 0) {
		dateStr := projDate.Format(dateLayout)

		years := make([]float64, n)
		var totalYears float64
		for i := range policies {
			years[i] = serviceYears(empStarts[i], projDate)
			totalYears += years[i]
		}

		weightedSalarySum := decimal.Zero
		weightedRateSum := decimal.Zero
		for i, p := range policies {
			weight := p.Salary.Mul(p.PartTimeFactor).Mul(decimal.NewFromFloat(years[i]))
			weightedSalarySum = weightedSalarySum.Add(weight)
			weightedRateSum = weightedRateSum.Add(weight.Mul(accrualRates[p.SchemeID]))
		}

		var annualPension decimal.Decimal
		avgRate := accrual.DefaultRate
		if totalYears > 0 {
			if !weightedSalarySum.IsZero() {
				avgRate = weightedRateSum.Div(weightedSalarySum)
			}
			annualPension = weightedSalarySum.Mul(avgRate)
		}

		for i := range state.Dossier.Policies {
			projected := decimal.Zero
			if totalYears > 0 {
				projected = annualPension.Mul(decimal.NewFromFloat(years[i])).Div(decimal.NewFromFloat(totalYears))
			}
			state.Dossier.Policies[i].Projections = append(state.Dossier.Policies[i].Projections, model.Projection{
				Date:             dateStr,
				ProjectedPension: projected,
			})
		}
	}

	return nil
}
