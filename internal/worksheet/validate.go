package worksheet

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every field of a Request that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid worksheet request: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so errors match the wire shape.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the request bounds. It returns *ValidationError when any
// field is invalid.
func (r Request) Validate() error {
	return r.validate()
}

// ValidateExceptCount checks every field but Count. Used when an edited
// question list, not the request, decides how many questions there are.
func (r Request) ValidateExceptCount() error {
	return r.validate("count")
}

func (r Request) validate(skip ...string) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate worksheet request: %w", err)
	}

	var fields []FieldError
	for _, fe := range verrs {
		// Element errors come back as "types[1]".
		name, _, _ := strings.Cut(fe.Field(), "[")
		if slices.Contains(skip, name) {
			continue
		}
		fields = append(fields, FieldError{Field: name, Message: fieldMessage(fe)})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "min", "max":
		if fe.Kind() == reflect.Slice {
			return "at least one question type is required"
		}
		return fmt.Sprintf("must be between %d and %d", MinCount, MaxCount)
	case "unique":
		return "question types must not repeat"
	case "oneof":
		return fmt.Sprintf("unknown question type %q", fe.Value())
	}
	return fe.Error()
}

// ParseType maps user input such as "mc", "multiple-choice" or "blank"
// to a QuestionType.
func ParseType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple-choice", "multiple_choice", "mc", "choice":
		return TypeMultipleChoice, nil
	case "fill-in-blank", "fill_in_blank", "fill", "blank", "fib":
		return TypeFillInBlank, nil
	}
	return "", fmt.Errorf("unknown question type %q: must be multiple-choice or fill-in-blank", s)
}
