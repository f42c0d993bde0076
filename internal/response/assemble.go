// Package response builds the externally-visible CalculationResponse from
// an engine.Result (spec §4.7).
package response

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"pension-engine/internal/engine"
	"pension-engine/internal/jsonpatch"
	"pension-engine/internal/model"
)

// Assemble builds the full response envelope for a request that ran from
// started to completed and produced result.
func Assemble(tenantID string, result engine.Result, started, completed time.Time) *model.CalculationResponse {
	initialSituation := model.Situation{}
	endSituation := result.EndSituation

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               tenantID,
			CalculationStartedAt:   started.UTC().Format(time.RFC3339),
			CalculationCompletedAt: completed.UTC().Format(time.RFC3339),
			CalculationDurationMs:  completed.Sub(started).Milliseconds(),
			CalculationOutcome:     result.Outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:  result.Messages,
			Mutations: result.Mutations,
			InitialSituation: model.InitialSituation{
				ActualAt:  result.InitialActualAt,
				Situation: initialSituation,
			},
			EndSituation: model.SituationEnvelope{
				MutationID:    result.LastMutationID,
				MutationIndex: result.LastMutationIndex,
				ActualAt:      result.LastActualAt,
				Situation:     endSituation,
			},
			SituationPatch: situationPatch(initialSituation, endSituation),
		},
	}
}

// situationPatch computes the RFC 6902 JSON Patch that transforms the
// (always-empty) initial situation into the end situation, using the
// teacher's generic jsonpatch.Diff over the two situations' JSON forms.
func situationPatch(from, to model.Situation) json.RawMessage {
	fromAny, toAny := toGeneric(from), toGeneric(to)
	ops := jsonpatch.Diff(fromAny, toAny, "")
	if len(ops) == 0 {
		return json.RawMessage("[]")
	}
	b, err := json.Marshal(ops)
	if err != nil {
		return json.RawMessage("[]")
	}
	return b
}

func toGeneric(s model.Situation) interface{} {
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}
