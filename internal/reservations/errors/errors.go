package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrStatusChanged means the conditional update matched no reservation
	// in the expected status.
	ErrStatusChanged = errors.New("reservation status changed")

	// ErrSlotTaken is raised by the partial unique index on slot_id: another
	// live reservation already holds the slot.
	ErrSlotTaken = errors.New("slot already has a live reservation")
)
