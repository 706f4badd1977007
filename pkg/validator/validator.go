package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ViolationKind classifies why a field was rejected.
type ViolationKind string

const (
	MissingRequiredField ViolationKind = "MissingRequiredField"
	FieldLengthViolation ViolationKind = "FieldLengthViolation"
	FieldFormatViolation ViolationKind = "FieldFormatViolation"
	FieldRangeViolation  ViolationKind = "FieldRangeViolation"
	TypeMismatch         ViolationKind = "TypeMismatch"
)

// Violation describes a single rejected field. Field is the JSON name.
type Violation struct {
	Field   string        `json:"field"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

// ValidationError collects every violation found while decoding or
// validating one shape.
type ValidationError struct {
	Shape      string      `json:"shape"`
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

// Has reports whether field was rejected with the given kind.
func (e *ValidationError) Has(field string, kind ViolationKind) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Kind == kind {
			return true
		}
	}
	return false
}

// Fields returns the rejected field names in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func (e *ValidationError) add(v Violation) {
	e.Violations = append(e.Violations, v)
}

var (
	rgbHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared validator configured with the binding tag
// name, JSON field names and the rgbhex/slug rules.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName("binding")
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			return jsonName(sf)
		})
		_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
			return rgbHexPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		engine = v
	})
	return engine
}

// Validate runs the declared constraints of v, which must be a struct or a
// pointer to one. Constraint failures come back as *ValidationError.
func Validate(v any) error {
	err := Engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	ve := &ValidationError{Shape: shapeName(v)}
	for _, fe := range fieldErrors {
		ve.add(toViolation(fe))
	}
	return ve
}

// FormatValidationError renders any validation failure as one line.
func FormatValidationError(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			messages = append(messages, toViolation(fe).Message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func toViolation(fe validator.FieldError) Violation {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return Violation{field, MissingRequiredField, fmt.Sprintf("%s is required", field)}
	case "min", "gte":
		if isString {
			return Violation{field, FieldLengthViolation, fmt.Sprintf("%s must be at least %s characters", field, fe.Param())}
		}
		return Violation{field, FieldRangeViolation, fmt.Sprintf("%s must be at least %s", field, fe.Param())}
	case "max", "lte":
		if isString {
			return Violation{field, FieldLengthViolation, fmt.Sprintf("%s must be at most %s characters", field, fe.Param())}
		}
		return Violation{field, FieldRangeViolation, fmt.Sprintf("%s must be at most %s", field, fe.Param())}
	case "len":
		if isString {
			return Violation{field, FieldLengthViolation, fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())}
		}
		return Violation{field, FieldRangeViolation, fmt.Sprintf("%s must be %s", field, fe.Param())}
	case "oneof":
		return Violation{field, FieldFormatViolation, fmt.Sprintf("%s must be one of [%s]", field, fe.Param())}
	case "rgbhex":
		return Violation{field, FieldFormatViolation, fmt.Sprintf("%s must be a #RRGGBB colour", field)}
	case "slug":
		return Violation{field, FieldFormatViolation, fmt.Sprintf("%s must contain only lowercase letters, digits and single hyphens", field)}
	case "url", "http_url":
		return Violation{field, FieldFormatViolation, fmt.Sprintf("%s must be a valid URL", field)}
	default:
		return Violation{field, FieldFormatViolation, fmt.Sprintf("%s is not valid", field)}
	}
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}

func shapeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
