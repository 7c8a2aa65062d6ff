package validator

import (
	"errors"

	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

type SlotValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSlotValidator(log *logger.Logger) *SlotValidator {
	v := validator.New()

	if err := model.RegisterValidations(v); err != nil {
		log.Fatal("Failed to register slot validators", "error", err)
	}

	return &SlotValidator{
		validate: v,
		logger:   log,
	}
}

func (v *SlotValidator) ValidateGenerate(req *model.GenerateSlotsRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return model.TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
