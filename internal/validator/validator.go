package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError - ошибки по полям: JSON-имя поля -> сообщение
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// Validator - обертка над go-playground/validator
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

func New() *Validator {
	v := validator.New()

	// в ошибках поля называются так же, как в JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		messages: registerCustomRules(v),
	}
}

// Var проверяет одиночное значение по тегу (например "required,email").
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Validate проверяет структуру. Ошибки полей возвращаются как *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		out[fe.Field()] = v.message(fe)
	}
	return &ValidationError{Errors: out}
}

func (v *Validator) message(fe validator.FieldError) string {
	if msg, ok := v.messages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	case "min", "max", "len":
		bound := map[string]string{"min": "at least", "max": "at most", "len": "exactly"}[fe.Tag()]
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Must be %s %s characters long", bound, fe.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("Must contain %s %s items", bound, fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
