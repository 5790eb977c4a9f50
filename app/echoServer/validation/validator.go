package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/dates"
)

// Validator adapts the engine to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: NewEngine()}
}

func (v *Validator) Validate(i interface{}) error {
	return Struct(v.v, i)
}

// NewEngine returns a validator that reports JSON field names and knows the
// isodate and itemtype tags.
func NewEngine() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := dates.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseItemType(fl.Field().String())
		return ok
	})
	return v
}

// Struct validates i and converts failures into a BAD_INPUT error carrying
// one FieldError per failed field.
func Struct(v *validator.Validate, i interface{}) error {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return svcerr.Invalid(err.Error())
	}
	fields := make([]svcerr.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, svcerr.FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return svcerr.Invalid("validation error", fields...)
}
