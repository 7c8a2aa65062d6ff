package errors

import "errors"

var (
	ErrGymNotFound = errors.New("gym not found")

	ErrTrainerNotFound = errors.New("trainer profile not found")

	ErrInvalidID = errors.New("invalid ID format")
)
