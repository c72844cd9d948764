package dto

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError aggregates per-field failures so the boundary can return
// them as a 400 with an errors object.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// structErrors runs the shared validator over v and flattens the result
// into a field -> message map keyed by the JSON field name.
func structErrors(v any) map[string]string {
	fields := map[string]string{}
	err := validate.Struct(v)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); !ok {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func jsonName(field string) string {
	// Struct fields are exported CamelCase; wire names are snake_case.
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ReplaceAll(jsonName(fe.Field()), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.ReplaceAll(jsonName(fe.Param()), "_", " "))
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}
