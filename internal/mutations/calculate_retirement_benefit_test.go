package mutations

import (
	"testing"

	"github.com/shopspring/decimal"

	"pension-engine/internal/model"
)

func retirementState() *model.Situation {
	return &model.Situation{Dossier: &model.Dossier{
		DossierID: "D1",
		Status:    model.DossierStatusActive,
		Persons:   []model.Person{{PersonID: "P1", Role: model.RolePersonParticipant, Name: "Alice", BirthDate: "1960-01-01"}},
		Policies: []model.Policy{
			{PolicyID: "D1-1", SchemeID: "S1", EmploymentStartDate: "1990-01-01", Salary: decimal.RequireFromString("50000"), PartTimeFactor: decimal.NewFromInt(1)},
		},
	}}
}

func TestCalculateRetirementValidate_NoParticipant(t *testing.T) {
	state := retirementState()
	state.Dossier.Persons = nil
	msgs := CalculateRetirementBenefitHandler{}.Validate(state, newMutation(`{"retirement_date": "2025-01-01"}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeNoParticipant {
		t.Fatalf("expected NO_PARTICIPANT, got %+v", msgs)
	}
}

func TestCalculateRetirementValidate_NotEligible(t *testing.T) {
	state := retirementState()
	state.Dossier.Persons[0].BirthDate = "2000-01-01"
	state.Dossier.Policies[0].EmploymentStartDate = "2020-01-01"
	msgs := CalculateRetirementBenefitHandler{}.Validate(state, newMutation(`{"retirement_date": "2025-01-01"}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeNotEligible {
		t.Fatalf("expected NOT_ELIGIBLE, got %+v", msgs)
	}
}

func TestCalculateRetirementValidate_MissingRetirementDate(t *testing.T) {
	state := retirementState()
	msgs := CalculateRetirementBenefitHandler{}.Validate(state, newMutation(`{}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeNotEligible {
		t.Fatalf("expected NOT_ELIGIBLE, got %+v", msgs)
	}
}

func TestCalculateRetirementValidate_MalformedRetirementDate(t *testing.T) {
	state := retirementState()
	msgs := CalculateRetirementBenefitHandler{}.Validate(state, newMutation(`{"retirement_date": "not-a-date"}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeNotEligible {
		t.Fatalf("expected NOT_ELIGIBLE, got %+v", msgs)
	}
}

func TestCalculateRetirementApply_SingleSchemeMatchesFlatRate(t *testing.T) {
	state := retirementState()
	CalculateRetirementBenefitHandler{}.Apply(state, newMutation(`{"retirement_date": "2025-01-01"}`), nil)

	if state.Dossier.Status != model.DossierStatusRetired {
		t.Fatalf("expected RETIRED status, got %s", state.Dossier.Status)
	}
	pension := state.Dossier.Policies[0].AttainablePension
	if pension == nil {
		t.Fatal("expected attainable_pension to be set")
	}
	want := decimal.RequireFromString("35000")
	if !pension.Equal(want) {
		t.Fatalf("expected 35000, got %s", pension.String())
	}
}

func TestCalculateRetirementApply_SumsToAnnualPensionAcrossSchemes(t *testing.T) {
	state := &model.Situation{Dossier: &model.Dossier{
		DossierID: "D1",
		Persons:   []model.Person{{PersonID: "P1", Role: model.RolePersonParticipant, BirthDate: "1960-01-01"}},
		Policies: []model.Policy{
			{PolicyID: "D1-1", SchemeID: "S1", EmploymentStartDate: "1990-01-01", Salary: decimal.RequireFromString("30000"), PartTimeFactor: decimal.NewFromInt(1)},
			{PolicyID: "D1-2", SchemeID: "S2", EmploymentStartDate: "1990-01-01", Salary: decimal.RequireFromString("20000"), PartTimeFactor: decimal.NewFromInt(1)},
		},
	}}

	CalculateRetirementBenefitHandler{}.Apply(state, newMutation(`{"retirement_date": "2025-01-01"}`), nil)

	sum := decimal.Zero
	for _, p := range state.Dossier.Policies {
		sum = sum.Add(*p.AttainablePension)
	}
	expected := decimal.RequireFromString("50000").Mul(decimal.NewFromFloat(35)).Mul(decimal.RequireFromString("0.02"))
	if !sum.Round(2).Equal(expected.Round(2)) {
		t.Fatalf("expected sum of attainable pensions to equal annual pension, got %s want %s", sum, expected)
	}
}
