package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Defaulter is implemented by shapes that have default values. Decode calls
// ApplyDefaults on the fresh value before copying input fields over it, so
// only absent fields keep their defaults.
type Defaulter interface {
	ApplyDefaults()
}

var errMismatch = errors.New("type mismatch")

// DecodeJSON decodes a JSON object into dst and validates it.
func DecodeJSON(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &ValidationError{
			Shape:      shapeName(dst),
			Violations: []Violation{{Kind: TypeMismatch, Message: "body must be a JSON object"}},
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return &ValidationError{
			Shape:      shapeName(dst),
			Violations: []Violation{{Kind: TypeMismatch, Message: "body must be a JSON object"}},
		}
	}
	return Decode(obj, dst)
}

// DecodeValues decodes URL query values into dst and validates it. Only the
// first value of a repeated key is used.
func DecodeValues(values url.Values, dst any) error {
	input := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			input[key] = vs[0]
		}
	}
	return Decode(input, dst)
}

// Decode copies an untyped object into dst, a pointer to a struct, matching
// keys against JSON field names. Every type mismatch and constraint failure
// is collected into a single *ValidationError. A nil value counts as absent.
func Decode(input map[string]any, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil struct pointer, got %T", dst)
	}

	if d, ok := dst.(Defaulter); ok {
		d.ApplyDefaults()
	}

	elem := rv.Elem()
	t := elem.Type()
	ve := &ValidationError{Shape: t.Name()}
	mismatched := make(map[string]bool)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		val, ok := input[name]
		if !ok || val == nil {
			continue
		}
		if err := assign(elem.Field(i), val); err != nil {
			mismatched[name] = true
			ve.add(Violation{
				Field:   name,
				Kind:    TypeMismatch,
				Message: fmt.Sprintf("%s must be %s", name, typeLabel(sf.Type)),
			})
		}
	}

	if err := Validate(dst); err != nil {
		var fieldErrors *ValidationError
		if !errors.As(err, &fieldErrors) {
			return err
		}
		for _, v := range fieldErrors.Violations {
			if !mismatched[v.Field] {
				ve.add(v)
			}
		}
	}

	if len(ve.Violations) > 0 {
		return ve
	}
	return nil
}

// Encode renders a shape as JSON.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func assign(field reflect.Value, val any) error {
	// blank query parameters for non-string fields count as absent
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" && baseKind(field.Type()) != reflect.String {
		return nil
	}

	switch field.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), val); err != nil {
			return err
		}
		field.Set(ptr)
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return errMismatch
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(val)
		if err != nil || field.OverflowInt(n) {
			return errMismatch
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(val)
		if err != nil || n < 0 || field.OverflowUint(uint64(n)) {
			return errMismatch
		}
		field.SetUint(uint64(n))
	case reflect.Bool:
		switch b := val.(type) {
		case bool:
			field.SetBool(b)
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return errMismatch
			}
			field.SetBool(parsed)
		default:
			return errMismatch
		}
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

func toInt64(val any) (int64, error) {
	switch v := val.(type) {
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, errMismatch
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errMismatch
	}
}

func baseKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind()
}

func typeLabel(t reflect.Type) string {
	switch baseKind(t) {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a non-negative integer"
	default:
		return "an integer"
	}
}
