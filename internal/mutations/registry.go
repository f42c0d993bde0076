package mutations

var registry = map[string]Handler{
	"create_dossier":               CreateDossierHandler{},
	"add_policy":                   AddPolicyHandler{},
	"apply_indexation":             ApplyIndexationHandler{},
	"calculate_retirement_benefit": CalculateRetirementBenefitHandler{},
	"project_future_benefits":      ProjectFutureBenefitsHandler{},
}

// Get looks up the handler registered for a mutation_definition_name.
func Get(name string) (Handler, bool) {
	h, ok := registry[name]
	return h, ok
}
