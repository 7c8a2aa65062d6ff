package errors

import "errors"

var (
	ErrNotFound = errors.New("time slot not found")

	ErrInvalidID = errors.New("invalid time slot ID format")

	// ErrStatusChanged means a conditional update matched no slot: the slot
	// no longer has the status the transition requires.
	ErrStatusChanged = errors.New("time slot status changed")

	ErrDuplicateOrder = errors.New("time slot already exists for this trainer, date and start")

	ErrMalformedTime    = errors.New("malformed time of day")
	ErrDurationTooShort = errors.New("slot duration is below the minimum")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
	ErrSpanTooShort     = errors.New("time range is shorter than one slot")
)
