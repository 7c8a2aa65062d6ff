package validator

import (
	"errors"

	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ReservationValidator) ValidateBook(req *model.BookRequest) error {
	return v.check(req)
}

// ValidateDraft checks a reservation built from its slot before insert.
func (v *ReservationValidator) ValidateDraft(r *model.Reservation) error {
	return v.check(r)
}

func (v *ReservationValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return model.TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
