package model

import "encoding/json"

// TenantIDPattern is the allowed shape of a tenant_id: lowercase
// alphanumerics, optionally underscore-separated. Registered as the
// "tenant_id" custom validator in internal/httpapi.
const TenantIDPattern = `^[a-z0-9]+(?:_[a-z0-9]+)*$`

type CalculationRequest struct {
	TenantID                string                  `json:"tenant_id" validate:"required,max=25,tenant_id"`
	CalculationInstructions CalculationInstructions `json:"calculation_instructions" validate:"required"`
}

type CalculationInstructions struct {
	Mutations []Mutation `json:"mutations" validate:"required,min=1,dive"`
}

// Mutation is an atomic ordered instruction, echoed verbatim into the
// response's processed-mutation list. MutationProperties stays a
// json.RawMessage so the original field order and any unknown fields
// survive the round trip, per spec's snapshot-fidelity requirement.
type Mutation struct {
	MutationID             string          `json:"mutation_id" validate:"required"`
	MutationDefinitionName string          `json:"mutation_definition_name" validate:"required"`
	MutationType           string          `json:"mutation_type" validate:"required"`
	ActualAt               string          `json:"actual_at" validate:"required"`
	DossierID              string          `json:"dossier_id,omitempty"`
	MutationProperties     json.RawMessage `json:"mutation_properties"`
}
