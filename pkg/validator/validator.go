// Package validator wraps go-playground/validator with the request rules used by the API.
// Field names in failures are the JSON names clients send.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// Missing reports whether the field was absent or blank.
func (f FieldError) Missing() bool {
	return f.Tag == "required" || f.Tag == "notblank"
}

// Message renders the failure for API clients, e.g. "input must be at most 700 characters".
func (f FieldError) Message() string {
	field := strings.ToLower(strings.ReplaceAll(f.Field, "_", " "))
	if field == "" {
		field = "field"
	}
	switch f.Tag {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, f.Param)
	case "":
		return field + " is invalid"
	}
	if f.Param != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", field, f.Tag, f.Param)
	}
	return fmt.Sprintf("%s failed validation: %s", field, f.Tag)
}

// ValidationErrors collects every failed rule of one struct.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Field + " failed on " + f.Tag
		if f.Param != "" {
			parts[i] += "=" + f.Param
		}
	}
	return strings.Join(parts, "; ")
}

// Missing reports whether any failure is an absent or blank field.
func (v ValidationErrors) Missing() bool {
	for _, f := range v {
		if f.Missing() {
			return true
		}
	}
	return false
}

// Message joins the client messages of all failures.
func (v ValidationErrors) Message() string {
	if len(v) == 0 {
		return "invalid request payload"
	}
	msgs := make([]string, len(v))
	for i, f := range v {
		msgs[i] = f.Message()
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct runs the struct's validate tags. Rule failures come back as
// ValidationErrors; anything else (e.g. a non-struct argument) is returned unchanged.
func ValidateStruct(s any) error {
	err := engine().Struct(s)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(ValidationErrors, len(ve))
	for i, fe := range ve {
		out[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return out
}

// RegisterValidation adds a custom rule to the shared engine.
func RegisterValidation(tag string, fn validator.Func) error {
	return engine().RegisterValidation(tag, fn)
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	return field.Kind() != reflect.String || strings.TrimSpace(field.String()) != ""
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		if err := validate.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
	})
	return validate
}
