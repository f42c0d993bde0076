package mutations

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/propbag"
)

// AddPolicyHandler implements the add_policy mutation (spec §4.3).
type AddPolicyHandler struct{}

func (h AddPolicyHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if state.Dossier == nil {
		return []model.CalculationMessage{critical(model.CodeDossierNotFound, "No dossier exists")}
	}

	props := propbag.New(mutation.MutationProperties)

	if props.Decimal("salary").IsNegative() {
		return []model.CalculationMessage{critical(model.CodeInvalidSalary, "Salary must be non-negative")}
	}

	ptf := props.Decimal("part_time_factor")
	if ptf.IsNegative() || ptf.GreaterThan(decimal.NewFromInt(1)) {
		return []model.CalculationMessage{critical(model.CodeInvalidPartTimeFactor, "Part-time factor must be between 0 and 1")}
	}

	return nil
}

func (h AddPolicyHandler) Apply(state *model.Situation, mutation *model.Mutation, _ accrual.Provider) []model.CalculationMessage {
	props := propbag.New(mutation.MutationProperties)
	schemeID := props.String("scheme_id")
	startDate := props.Date("employment_start_date")

	var msgs []model.CalculationMessage
	for _, p := range state.Dossier.Policies {
		if p.SchemeID == schemeID && p.EmploymentStartDate == startDate {
			msgs = append(msgs, warning(model.CodeDuplicatePolicy,
				fmt.Sprintf("A policy with scheme_id %s and employment_start_date %s already exists", schemeID, startDate)))
			break
		}
	}

	state.Dossier.PolicySeq++
	policyID := fmt.Sprintf("%s-%d", state.Dossier.DossierID, state.Dossier.PolicySeq)

	state.Dossier.Policies = append(state.Dossier.Policies, model.Policy{
		PolicyID:            policyID,
		SchemeID:            schemeID,
		EmploymentStartDate: startDate,
		Salary:              props.Decimal("salary"),
		PartTimeFactor:      props.Decimal("part_time_factor"),
		AttainablePension:   nil,
		Projections:         nil,
	})

	return msgs
}
