package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const TagCode = "code"

var codePattern = regexp.MustCompile(`^[a-zA-Z]+[a-zA-Z0-9_]+$`)

type Engine struct {
	validate *validator.Validate
}

func NewEngine() *Engine {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(TagCode, isCode); err != nil {
		panic(fmt.Sprintf("validation: register %s rule: %v", TagCode, err))
	}
	return &Engine{validate: v}
}

// Struct evaluates the validate tags of target. The returned error is never
// nil; use Err to turn it into an error value.
func (e *Engine) Struct(ctx context.Context, target any) *Error {
	result := &Error{}

	err := e.validate.StructCtx(ctx, target)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Add("", err.Error())
		return result
	}

	for _, fe := range fieldErrs {
		result.Add(fieldPath(fe.Namespace()), message(fe))
	}
	return result
}

func IsCode(value string) bool {
	return codePattern.MatchString(value)
}

func isCode(fl validator.FieldLevel) bool {
	return IsCode(fl.Field().String())
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "required_without":
		return fmt.Sprintf("The %s field is required when %s is not present.", field, label(fe.Param()))
	case TagCode:
		return fmt.Sprintf("The %s must be valid.", field)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func label(field string) string {
	return strings.ReplaceAll(strings.ToLower(field), "_", " ")
}
