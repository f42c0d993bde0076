package mutations

import (
	"testing"

	"pension-engine/internal/model"
)

func dossierState() *model.Situation {
	return &model.Situation{Dossier: &model.Dossier{
		DossierID: "D1",
		Status:    model.DossierStatusActive,
		Persons:   []model.Person{{PersonID: "P1", Role: model.RolePersonParticipant, Name: "Alice"}},
	}}
}

func TestAddPolicyValidate_NoDossier(t *testing.T) {
	msgs := AddPolicyHandler{}.Validate(&model.Situation{}, newMutation(`{}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeDossierNotFound {
		t.Fatalf("expected DOSSIER_NOT_FOUND, got %+v", msgs)
	}
}

func TestAddPolicyValidate_NegativeSalary(t *testing.T) {
	msgs := AddPolicyHandler{}.Validate(dossierState(), newMutation(`{"salary": -1, "part_time_factor": 1.0}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeInvalidSalary {
		t.Fatalf("expected INVALID_SALARY, got %+v", msgs)
	}
}

func TestAddPolicyValidate_PartTimeFactorOutOfRange(t *testing.T) {
	msgs := AddPolicyHandler{}.Validate(dossierState(), newMutation(`{"salary": 1000, "part_time_factor": 1.5}`))
	if len(msgs) != 1 || msgs[0].Code != model.CodeInvalidPartTimeFactor {
		t.Fatalf("expected INVALID_PART_TIME_FACTOR, got %+v", msgs)
	}
}

func TestAddPolicyApply_AssignsSequentialPolicyID(t *testing.T) {
	state := dossierState()
	props := `{"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0}`

	AddPolicyHandler{}.Apply(state, newMutation(props), nil)
	if len(state.Dossier.Policies) != 1 || state.Dossier.Policies[0].PolicyID != "D1-1" {
		t.Fatalf("expected policy D1-1, got %+v", state.Dossier.Policies)
	}

	msgs := AddPolicyHandler{}.Apply(state, newMutation(props), nil)
	if len(msgs) != 1 || msgs[0].Code != model.CodeDuplicatePolicy {
		t.Fatalf("expected DUPLICATE_POLICY warning, got %+v", msgs)
	}
	if len(state.Dossier.Policies) != 2 || state.Dossier.Policies[1].PolicyID != "D1-2" {
		t.Fatalf("expected second policy D1-2, got %+v", state.Dossier.Policies)
	}
}
