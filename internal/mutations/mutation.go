// Package mutations implements the four core mutation handlers plus the
// supplemented project_future_benefits handler, and dispatches by
// mutation_definition_name without a runtime class hierarchy (spec §9).
package mutations

import (
	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
)

// Handler is the contract every mutation implementation satisfies.
// Validate checks preconditions and returns messages without mutating
// state; a CRITICAL message among them means the caller must not call
// Apply. Apply performs the state change and may still emit non-fatal
// WARNING messages (e.g. NEGATIVE_SALARY_CLAMPED, DUPLICATE_POLICY).
type Handler interface {
	Validate(state *model.Situation, mutation *model.Mutation) []model.CalculationMessage
	Apply(state *model.Situation, mutation *model.Mutation, rates accrual.Provider) []model.CalculationMessage
}
