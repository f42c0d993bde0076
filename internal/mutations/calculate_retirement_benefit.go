package mutations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/propbag"
)

// CalculateRetirementBenefitHandler implements the
// calculate_retirement_benefit mutation (spec §4.5).
type CalculateRetirementBenefitHandler struct{}

func (h CalculateRetirementBenefitHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if state.Dossier == nil {
		return []model.CalculationMessage{critical(model.CodeDossierNotFound, "No dossier exists")}
	}
	if len(state.Dossier.Policies) == 0 {
		return []model.CalculationMessage{critical(model.CodeNoPolicies, "Dossier has no policies")}
	}
	participant := state.Dossier.Participant()
	if participant == nil {
		return []model.CalculationMessage{critical(model.CodeNoParticipant, "Dossier has no participant")}
	}

	props := propbag.New(mutation.MutationProperties)
	retirementDate := props.Date("retirement_date")
	if retirementDate == propbag.InvalidDate {
		return []model.CalculationMessage{critical(model.CodeNotEligible, "Retirement date is missing or invalid")}
	}
	retDate, _ := parseDate(retirementDate)

	birthDate, _ := parseDate(participant.BirthDate)
	age := calendarAge(birthDate, retDate)

	var totalYears float64
	for _, p := range state.Dossier.Policies {
		empStart, _ := parseDate(p.EmploymentStartDate)
		totalYears += serviceYears(empStart, retDate)
	}

	if age < 65 && totalYears < 40 {
		return []model.CalculationMessage{critical(model.CodeNotEligible,
			fmt.Sprintf("Participant is %d years old with %.2f years of service", age, totalYears))}
	}

	var msgs []model.CalculationMessage
	for _, p := range state.Dossier.Policies {
		if retirementDate < p.EmploymentStartDate {
			msgs = append(msgs, warning(model.CodeRetirementBeforeEmployment,
				fmt.Sprintf("Retirement date is before employment start date for policy %s", p.PolicyID)))
		}
	}
	return msgs
}

func (h CalculateRetirementBenefitHandler) Apply(state *model.Situation, mutation *model.Mutation, rates accrual.Provider) []model.CalculationMessage {
	props := propbag.New(mutation.MutationProperties)
	retirementDate := props.Date("retirement_date")
	retDate, _ := parseDate(retirementDate)

	policies := state.Dossier.Policies
	n := len(policies)
	accrualRates := accrualRatesFor(policies, rates)

	years := make([]float64, n)
	effectiveSalaries := make([]decimal.Decimal, n)
	var totalYears float64

	for i, p := range policies {
		empStart, _ := parseDate(p.EmploymentStartDate)
		years[i] = serviceYears(empStart, retDate)
		effectiveSalaries[i] = p.Salary.Mul(p.PartTimeFactor)
		totalYears += years[i]
	}

	if totalYears == 0 {
		for i := range state.Dossier.Policies {
			z := decimal.Zero
			state.Dossier.Policies[i].AttainablePension = &z
		}
	} else {
		// weightedSalarySum also doubles as the denominator for the
		// salary-weighted average accrual rate, so that
		// sum(attainable_pension_i) == annual_pension even when
		// distinct schemes carry distinct accrual rates.
		weightedSalarySum := decimal.Zero
		weightedRateSum := decimal.Zero
		for i := range policies {
			weight := effectiveSalaries[i].Mul(decimal.NewFromFloat(years[i]))
			weightedSalarySum = weightedSalarySum.Add(weight)
			rate := accrualRates[state.Dossier.Policies[i].SchemeID]
			weightedRateSum = weightedRateSum.Add(weight.Mul(rate))
		}

		avgRate := accrual.DefaultRate
		if !weightedSalarySum.IsZero() {
			avgRate = weightedRateSum.Div(weightedSalarySum)
		}

		totalYearsDec := decimal.NewFromFloat(totalYears)
		annualPension := weightedSalarySum.Mul(avgRate)

		for i := range state.Dossier.Policies {
			policyPension := annualPension.Mul(decimal.NewFromFloat(years[i])).Div(totalYearsDec)
			state.Dossier.Policies[i].AttainablePension = &policyPension
		}
	}

	state.Dossier.Status = model.DossierStatusRetired
	state.Dossier.RetirementDate = &retirementDate

	return nil
}

// accrualRatesFor resolves an accrual rate per distinct scheme id among
// policies, via the configured provider (default 0.02, spec §4.5/§6).
func accrualRatesFor(policies []model.Policy, rates accrual.Provider) map[string]decimal.Decimal {
	if rates == nil {
		rates = accrual.FixedRateProvider{}
	}
	seen := map[string]struct{}{}
	var schemeIDs []string
	for _, p := range policies {
		if _, ok := seen[p.SchemeID]; !ok {
			seen[p.SchemeID] = struct{}{}
			schemeIDs = append(schemeIDs, p.SchemeID)
		}
	}
	return rates.GetAccrualRates(schemeIDs)
}
