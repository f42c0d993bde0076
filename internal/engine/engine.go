// Package engine owns the mutable Situation for one request and the
// dispatch loop that interprets mutations against it (spec §4.6).
package engine

import (
	"context"
	"fmt"

	"pension-engine/internal/accrual"
	"pension-engine/internal/model"
	"pension-engine/internal/mutations"
)

// Result is everything the response assembler needs: the flat message
// list, one processed-mutation entry per attempted mutation, the outcome,
// and the last-successful pointers used to build end_situation.
type Result struct {
	Messages         []model.CalculationMessage
	Mutations        []model.ProcessedMutation
	Outcome          string
	InitialActualAt  string
	EndSituation     model.Situation
	LastMutationID   string
	LastMutationIndex int
	LastActualAt     string
}

// Engine evaluates a request's mutations in order against a fresh,
// initially empty Situation.
type Engine struct {
	Rates accrual.Provider
}

// New builds an Engine against the given accrual rate provider. A nil
// provider falls back to the constant 0.02 default (spec §6).
func New(rates accrual.Provider) *Engine {
	if rates == nil {
		rates = accrual.FixedRateProvider{}
	}
	return &Engine{Rates: rates}
}

// Evaluate runs the dispatch loop described in spec §4.6. It honors ctx
// cancellation at mutation boundaries (spec §5): on cancellation the loop
// stops early and returns whatever has been computed, with outcome
// FAILURE.
func (e *Engine) Evaluate(ctx context.Context, mutationList []model.Mutation) Result {
	state := &model.Situation{}

	var allMessages []model.CalculationMessage
	var processed []model.ProcessedMutation
	outcome := model.OutcomeSuccess

	lastMutationID := mutationList[0].MutationID
	lastMutationIndex := 0
	lastActualAt := mutationList[0].ActualAt

	for i, mut := range mutationList {
		if err := ctx.Err(); err != nil {
			outcome = model.OutcomeFailure
			break
		}

		start := len(allMessages)
		critical := false

		handler, ok := mutations.Get(mut.MutationDefinitionName)
		if !ok {
			allMessages = append(allMessages, model.CalculationMessage{
				Severity: model.SeverityCritical,
				Code:     model.CodeUnknownMutation,
				Message:  fmt.Sprintf("Unknown mutation: %s", mut.MutationDefinitionName),
			})
			critical = true
		} else {
			validationMsgs := handler.Validate(state, &mut)
			allMessages = append(allMessages, validationMsgs...)
			critical = hasCritical(validationMsgs)

			if !critical {
				applyMsgs := handler.Apply(state, &mut, e.Rates)
				allMessages = append(allMessages, applyMsgs...)
				critical = hasCritical(applyMsgs)
			}
		}

		indexes := indexRange(start, len(allMessages))
		for j := start; j < len(allMessages); j++ {
			allMessages[j].ID = j
		}

		processed = append(processed, model.ProcessedMutation{
			Mutation:                  mut,
			CalculationMessageIndexes: indexes,
		})

		if critical {
			outcome = model.OutcomeFailure
			break
		}

		lastMutationID = mut.MutationID
		lastMutationIndex = i
		lastActualAt = mut.ActualAt
	}

	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}

	return Result{
		Messages:          allMessages,
		Mutations:         processed,
		Outcome:           outcome,
		InitialActualAt:   mutationList[0].ActualAt,
		EndSituation:      state.Clone(),
		LastMutationID:    lastMutationID,
		LastMutationIndex: lastMutationIndex,
		LastActualAt:      lastActualAt,
	}
}

func hasCritical(msgs []model.CalculationMessage) bool {
	for _, m := range msgs {
		if m.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

func indexRange(start, end int) []int {
	if start == end {
		return nil
	}
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}
