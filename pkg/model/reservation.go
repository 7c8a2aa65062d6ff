package model

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationRejected  ReservationStatus = "rejected"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCheckedIn ReservationStatus = "checkedIn"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationRejected, ReservationCancelled},
	ReservationConfirmed: {ReservationCheckedIn},
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsLive reports whether a reservation in this status holds its slot.
func (s ReservationStatus) IsLive() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

// LiveReservationStatuses lists the statuses under which a reservation holds its slot.
var LiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationCheckedIn,
}

// Reservation copies date, start and end from its slot at booking time; later
// slot changes do not affect it.
type Reservation struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string            `json:"user_id" bson:"user_id" validate:"required,max=128"`
	TrainerID   string            `json:"trainer_id" bson:"trainer_id" validate:"required,mongodb"`
	GymID       string            `json:"gym_id,omitempty" bson:"gym_id,omitempty" validate:"omitempty,mongodb"`
	SlotID      string            `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	Date        string            `json:"date" bson:"date" validate:"required"`
	Start       string            `json:"start" bson:"start" validate:"required"`
	End         string            `json:"end" bson:"end" validate:"required"`
	Status      ReservationStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed rejected cancelled checkedIn"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	CheckedInAt *time.Time        `json:"checked_in_at,omitempty" bson:"checked_in_at,omitempty"`
}
