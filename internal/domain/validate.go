package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce  sync.Once
	recordValidate *validator.Validate
)

func recordValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterCustomTypeFunc(calendarValue, civil.Date{}, civil.DateTime{}, TermKey{})
		recordValidate = v
	})
	return recordValidate
}

// calendarValue exposes dates and terms to the validator as strings so that
// "required" rejects zero or malformed values.
func calendarValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case civil.Date:
		if v.IsValid() {
			return v.String()
		}
	case civil.DateTime:
		if v.IsValid() {
			return v.String()
		}
	case TermKey:
		if v.IsValid() {
			return v.String()
		}
	}
	return nil
}

// ValidateRecord checks a record's field constraints before it is written.
// The first failing field is reported as a *ValidationError.
func ValidateRecord(rec interface{}) error {
	err := recordValidator().Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := fmt.Sprintf("failed %q constraint", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed %q constraint (%s)", fe.Tag(), fe.Param())
		}
		return NewValidationError(fe.Field(), msg)
	}
	return fmt.Errorf("failed to validate record: %w", err)
}
