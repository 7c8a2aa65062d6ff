package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"coachbooking/pkg/timeofday"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field -> message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// RegisterValidations installs the hhmm, slot_end and ymd tags.
func RegisterValidations(v *validator.Validate) error {
	custom := map[string]validator.Func{
		"hhmm":     validateClock,
		"slot_end": validateSlotEnd,
		"ymd":      validateDate,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return nil
}

// hhmm is a slot start: 24:00 is an end marker only.
func validateClock(fl validator.FieldLevel) bool {
	m, err := timeofday.ParseClock(fl.Field().String())
	return err == nil && m < timeofday.MinutesPerDay
}

func validateSlotEnd(fl validator.FieldLevel) bool {
	_, err := timeofday.ParseEnd(fl.Field().String())
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	return timeofday.IsDate(fl.Field().String())
}

var documentValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
})

// CheckDocument validates a document decoded from the store. Documents with
// missing or malformed required fields are reported instead of returned.
func CheckDocument(doc any) error {
	if err := documentValidator().Struct(doc); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func TranslateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be a time of day in HH:MM format", err.Field())
		case "slot_end":
			message = fmt.Sprintf("%s must be a time of day in HH:MM format or 24:00", err.Field())
		case "ymd":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
