package mutations

import (
	"github.com/shopspring/decimal"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/propbag"
)

// ApplyIndexationHandler implements the apply_indexation mutation
// (spec §4.4).
type ApplyIndexationHandler struct{}

func (h ApplyIndexationHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if state.Dossier == nil {
		return []model.CalculationMessage{critical(model.CodeDossierNotFound, "No dossier exists")}
	}
	if len(state.Dossier.Policies) == 0 {
		return []model.CalculationMessage{critical(model.CodeNoPolicies, "Dossier has no policies")}
	}
	return nil
}

func (h ApplyIndexationHandler) Apply(state *model.Situation, mutation *model.Mutation, _ accrual.Provider) []model.CalculationMessage {
	props := propbag.New(mutation.MutationProperties)
	percentage := props.Decimal("percentage")
	schemeID := props.String("scheme_id")
	effectiveBefore := props.NullableDate("effective_before")

	hasFilter := schemeID != "" || effectiveBefore != nil

	selected := make([]int, 0, len(state.Dossier.Policies))
	for i, p := range state.Dossier.Policies {
		if schemeID != "" && p.SchemeID != schemeID {
			continue
		}
		if effectiveBefore != nil && p.EmploymentStartDate >= *effectiveBefore {
			continue
		}
		selected = append(selected, i)
	}

	if hasFilter && len(selected) == 0 {
		return []model.CalculationMessage{warning(model.CodeNoMatchingPolicies, "No policies match the provided filter criteria")}
	}

	one := decimal.NewFromInt(1)
	clamped := false
	for _, i := range selected {
		newSalary := state.Dossier.Policies[i].Salary.Mul(one.Add(percentage))
		if newSalary.IsNegative() {
			newSalary = decimal.Zero
			clamped = true
		}
		state.Dossier.Policies[i].Salary = newSalary
	}

	if clamped {
		return []model.CalculationMessage{warning(model.CodeNegativeSalaryClamped, "One or more policy salaries were clamped to 0")}
	}
	return nil
}
