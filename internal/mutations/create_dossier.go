package mutations

import (
	"strings"
	"time"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/propbag"
)

// CreateDossierHandler implements the create_dossier mutation (spec §4.2).
type CreateDossierHandler struct{}

func (h CreateDossierHandler) Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage {
	if state.Dossier != nil {
		return []model.CalculationMessage{critical(model.CodeDossierAlreadyExists, "A dossier already exists")}
	}

	props := propbag.New(mutation.MutationProperties)

	if strings.TrimSpace(props.String("name")) == "" {
		return []model.CalculationMessage{critical(model.CodeInvalidName, "Name is empty or blank")}
	}

	birthDate := props.Date("birth_date")
	if birthDate == propbag.InvalidDate {
		return []model.CalculationMessage{critical(model.CodeInvalidBirthDate, "Birth date is invalid or in the future")}
	}
	t, _ := parseDate(birthDate)
	if t.After(time.Now()) {
		return []model.CalculationMessage{critical(model.CodeInvalidBirthDate, "Birth date is invalid or in the future")}
	}

	return nil
}

func (h CreateDossierHandler) Apply(state *model.Situation, mutation *model.Mutation, _ accrual.Provider) []model.CalculationMessage {
	props := propbag.New(mutation.MutationProperties)

	state.Dossier = &model.Dossier{
		DossierID:      props.String("dossier_id"),
		Status:         model.DossierStatusActive,
		RetirementDate: nil,
		Persons: []model.Person{
			{
				PersonID:  props.String("person_id"),
				Role:      model.RolePersonParticipant,
				Name:      props.String("name"),
				BirthDate: props.Date("birth_date"),
			},
		},
		Policies:  []model.Policy{},
		PolicySeq: 0,
	}

	return nil
}

func critical(code, message string) model.CalculationMessage {
	return model.CalculationMessage{Severity: model.SeverityCritical, Code: code, Message: message}
}

func warning(code, message string) model.CalculationMessage {
	return model.CalculationMessage{Severity: model.SeverityWarning, Code: code, Message: message}
}
