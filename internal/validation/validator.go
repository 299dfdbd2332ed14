package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

// Validator adapts go-playground/validator to echo.Validator.  Besides the
// built-in tags it understands:
//
//	rule=<kind>.<field>  value must match the registry pattern
//	nosequence           value must not contain a keyboard run
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the registry backed tags on a fresh validator.
func NewValidator(reg *Registry) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("rule", func(fl validator.FieldLevel) bool {
		kind, field, ok := strings.Cut(fl.Param(), ".")
		if !ok {
			return false
		}
		m, ok := reg.Pattern(Kind(kind), field)
		if !ok {
			return false
		}
		return m.MatchString(fieldString(fl.Field()))
	})
	_ = v.RegisterValidation("nosequence", func(fl validator.FieldLevel) bool {
		return !HasKeyboardSequence(fieldString(fl.Field()))
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.  Failures come back as BadInput
// errors naming the first offending field.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Wrap(apperr.BadInput, "Invalid request.", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.New(apperr.BadInput, "Missing required fields.").
			WithDetails(map[string]any{"missing": []string{fe.Field()}})
	case "nosequence":
		return apperr.New(apperr.BadInput, "Password contains sequential patterns.")
	}
	details := map[string]any{"dataKey": fe.Field()}
	if fe.Tag() != "rule" || !strings.HasSuffix(fe.Param(), ".password") {
		details["dataValue"] = fe.Value()
	}
	return apperr.New(apperr.BadInput, "Rules not respected.").WithDetails(details)
}

// Var checks a single value against a tag, for path parameters.
func (cv *Validator) Var(value any, tag string) error {
	return cv.v.Var(value, tag)
}

func fieldString(v reflect.Value) string {
	switch {
	case v.Kind() == reflect.String:
		return v.String()
	case v.CanInt():
		return strconv.FormatInt(v.Int(), 10)
	case v.CanUint():
		return strconv.FormatUint(v.Uint(), 10)
	}
	return ""
}
