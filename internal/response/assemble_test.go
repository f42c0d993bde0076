package response

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pension-engine/internal/engine"
	"pension-engine/internal/model"
)

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func mutation(id, name, actualAt string, props string) model.Mutation {
	return model.Mutation{
		MutationID:             id,
		MutationDefinitionName: name,
		MutationType:           name,
		ActualAt:               actualAt,
		MutationProperties:     json.RawMessage(props),
	}
}

func run(t *testing.T, mutations []model.Mutation) *model.CalculationResponse {
	t.Helper()
	started := time.Now()
	result := engine.New(nil).Evaluate(context.Background(), mutations)
	return Assemble("acme_pensions", result, started, time.Now())
}

// Scenario 1: a single create_dossier succeeds with an ACTIVE, policy-free dossier.
func TestScenario1_CreateDossier(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Equal(t, "acme_pensions", resp.CalculationMetadata.TenantID)
	dossier := resp.CalculationResult.EndSituation.Situation.Dossier
	require.NotNil(t, dossier)
	require.Equal(t, model.DossierStatusActive, dossier.Status)
	require.Len(t, dossier.Persons, 1)
	require.Empty(t, dossier.Policies)
}

// Scenario 2: add_policy after create_dossier assigns policy_id "{dossier_id}-1".
func TestScenario2_AddPolicy(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
		mutation("m2", "add_policy", "2020-01-02", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0
		}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	policies := resp.CalculationResult.EndSituation.Situation.Dossier.Policies
	require.Len(t, policies, 1)
	require.Equal(t, "D1-1", policies[0].PolicyID)
	require.True(t, policies[0].Salary.Equal(decimalFromFloat(50000)))
}

// Scenario 3: a duplicate add_policy emits one WARNING but still inserts.
func TestScenario3_DuplicatePolicyWarns(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
		mutation("m2", "add_policy", "2020-01-02", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0
		}`),
		mutation("m3", "add_policy", "2020-01-03", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 60000, "part_time_factor": 1.0
		}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Len(t, resp.CalculationResult.Messages, 1)
	require.Equal(t, model.CodeDuplicatePolicy, resp.CalculationResult.Messages[0].Code)
	require.Equal(t, model.SeverityWarning, resp.CalculationResult.Messages[0].Severity)
	require.Len(t, resp.CalculationResult.EndSituation.Situation.Dossier.Policies, 2)
}

// Scenario 4: a 10% indexation with no filters raises salary 50000 to exactly 55000.
func TestScenario4_Indexation(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
		mutation("m2", "add_policy", "2020-01-02", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0
		}`),
		mutation("m3", "apply_indexation", "2020-01-03", `{"percentage": 0.10}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Empty(t, resp.CalculationResult.Messages)
	salary := resp.CalculationResult.EndSituation.Situation.Dossier.Policies[0].Salary
	require.True(t, salary.Equal(decimalFromFloat(55000)), "got %s", salary.String())
}

// Scenario 5: a large negative indexation clamps salary to 0 with exactly one warning.
func TestScenario5_IndexationClamps(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
		mutation("m2", "add_policy", "2020-01-02", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0
		}`),
		mutation("m3", "apply_indexation", "2020-01-03", `{"percentage": -5.0}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Len(t, resp.CalculationResult.Messages, 1)
	require.Equal(t, model.CodeNegativeSalaryClamped, resp.CalculationResult.Messages[0].Code)
	salary := resp.CalculationResult.EndSituation.Situation.Dossier.Policies[0].Salary
	require.True(t, salary.IsZero())
}

// Scenario 6: retirement at age 65 with ~35 years of service yields annual_pension ~= 35000.00.
func TestScenario6_RetirementBenefit(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
		mutation("m2", "add_policy", "2020-01-02", `{
			"scheme_id": "S1", "employment_start_date": "1990-01-01", "salary": 50000, "part_time_factor": 1.0
		}`),
		mutation("m3", "calculate_retirement_benefit", "2025-01-01", `{"retirement_date": "2025-01-01"}`),
	})

	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	dossier := resp.CalculationResult.EndSituation.Situation.Dossier
	require.Equal(t, model.DossierStatusRetired, dossier.Status)
	require.NotNil(t, dossier.Policies[0].AttainablePension)
	pension, _ := dossier.Policies[0].AttainablePension.Float64()
	require.InDelta(t, 35000.00, pension, 0.01)
}

// Scenario 7: calculate_retirement_benefit with no dossier fails fast.
func TestScenario7_RetirementWithoutDossier(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "calculate_retirement_benefit", "2025-01-01", `{"retirement_date": "2025-01-01"}`),
	})

	require.Equal(t, model.OutcomeFailure, resp.CalculationMetadata.CalculationOutcome)
	require.Len(t, resp.CalculationResult.Messages, 1)
	require.Equal(t, model.CodeDossierNotFound, resp.CalculationResult.Messages[0].Code)
	require.Len(t, resp.CalculationResult.Mutations, 1)
	require.Equal(t, 0, resp.CalculationResult.EndSituation.MutationIndex)
	require.Nil(t, resp.CalculationResult.EndSituation.Situation.Dossier)
}

func TestOutcomeMatchesCriticalPresence(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "calculate_retirement_benefit", "2025-01-01", `{"retirement_date": "2025-01-01"}`),
	})

	hasCritical := false
	for _, m := range resp.CalculationResult.Messages {
		if m.Severity == model.SeverityCritical {
			hasCritical = true
		}
	}
	require.Equal(t, hasCritical, resp.CalculationMetadata.CalculationOutcome == model.OutcomeFailure)
}

func TestSituationPatchReflectsCreation(t *testing.T) {
	resp := run(t, []model.Mutation{
		mutation("m1", "create_dossier", "2020-01-01", `{
			"dossier_id": "D1", "person_id": "P1", "name": "Alice", "birth_date": "1960-01-01"
		}`),
	})

	require.NotEmpty(t, resp.CalculationResult.SituationPatch)
	require.Contains(t, string(resp.CalculationResult.SituationPatch), "/dossier")
}
