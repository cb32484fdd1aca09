package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"

	models "github.com/akashbonde99/CarRentalServicesProject/internal"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterCustomTypeFunc(dateToTime, models.Date{})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// dateToTime lets the builtin rules (required etc.) see models.Date fields as
// plain time.Time values.
func dateToTime(field reflect.Value) interface{} {
	if d, ok := field.Interface().(models.Date); ok {
		return d.Time
	}
	return nil
}
