package operation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-opbuilder/internal/shape"
)

// Validator checks a materialized instance against its declared constraints.
// An empty result means the instance is valid.
type Validator interface {
	Validate(instance any) []*ValidationError
}

// structValidator evaluates `validate` struct tags.
type structValidator struct {
	v *validator.Validate
}

// NewValidator returns the default Validator backed by go-playground/validator.
// Field paths use json tag names so they match builder keys.
func NewValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, ok := shape.FieldName(sf)
		if !ok {
			return "-"
		}
		return name
	})
	return &structValidator{v: v}
}

func (s *structValidator) Validate(instance any) []*ValidationError {
	err := s.v.Struct(instance)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Non-struct operations carry no tag constraints.
		return nil
	}
	return foldFieldErrors(fieldErrs)
}

// foldFieldErrors turns validator's flat namespace list into a violation tree.
// Nodes keep first-seen order so rendering is deterministic.
func foldFieldErrors(fieldErrs validator.ValidationErrors) []*ValidationError {
	var roots []*ValidationError
	for _, fe := range fieldErrs {
		segments := shape.SplitNamespace(fe.Namespace())
		if len(segments) == 0 {
			segments = []string{fe.Field()}
		}

		level := &roots
		var node *ValidationError
		for _, seg := range segments {
			node = findOrAppend(level, seg)
			level = &node.Children
		}

		node.Value = fe.Value()
		node.Constraints = append(node.Constraints, Constraint{
			Name:    fe.Tag(),
			Message: constraintMessage(fe),
		})
	}
	return roots
}

func findOrAppend(level *[]*ValidationError, property string) *ValidationError {
	for _, n := range *level {
		if n.Property == property {
			return n
		}
	}
	n := &ValidationError{Property: property}
	*level = append(*level, n)
	return n
}

// constraintMessage renders a human sentence for the common validator tags.
func constraintMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return field + " should not be empty"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be longer than or equal to %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain at least %s elements", field, param)
		default:
			return fmt.Sprintf("%s must not be less than %s", field, param)
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain no more than %s elements", field, param)
		default:
			return fmt.Sprintf("%s must not be greater than %s", field, param)
		}
	case "len":
		return fmt.Sprintf("%s must have length %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(strings.Fields(param), ", "))
	case "email":
		return field + " must be an email"
	case "uuid", "uuid4":
		return field + " must be a UUID"
	case "url", "http_url":
		return field + " must be a URL address"
	default:
		if param != "" {
			return fmt.Sprintf("%s failed the %q constraint (%s)", field, fe.Tag(), param)
		}
		return fmt.Sprintf("%s failed the %q constraint", field, fe.Tag())
	}
}
