package httpapi

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"pension-engine/internal/model"
)

var tenantIDPattern = regexp.MustCompile(model.TenantIDPattern)

// newValidator builds a validator.Validate with the tenant_id custom tag
// registered (validator has no built-in arbitrary-regex tag).
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("tenant_id", func(fl validator.FieldLevel) bool {
		return tenantIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldProblems translates validator.ValidationErrors into the
// request-boundary's problem-document field list.
func fieldProblems(err error) []FieldProblem {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldProblem{{Field: "body", Message: err.Error()}}
	}
	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, FieldProblem{
			Field:   fe.Namespace(),
			Message: describeTag(fe),
		})
	}
	return problems
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "exceeds the maximum length of " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " element(s)"
	case "tenant_id":
		return "must match " + model.TenantIDPattern
	default:
		return "failed validation: " + fe.Tag()
	}
}
