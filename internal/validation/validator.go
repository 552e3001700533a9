// Package validation plugs go-playground/validator into echo so handlers
// can call c.Validate on bound request bodies.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate validates a struct using its `validate` tags.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// Fields returns the JSON names of the fields that failed validation, in
// declaration order. It returns nil for errors not produced by Validate.
func Fields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
