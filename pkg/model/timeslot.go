package model

import "time"

type SlotStatus string

const (
	SlotFree    SlotStatus = "free"
	SlotBooked  SlotStatus = "booked"
	SlotExpired SlotStatus = "expired"
)

var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotFree:   {SlotBooked, SlotExpired},
	SlotBooked: {SlotFree},
}

func (s SlotStatus) CanTransitionTo(next SlotStatus) bool {
	for _, allowed := range slotTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Deletable reports whether a slot in this status may be removed by its trainer.
func (s SlotStatus) Deletable() bool {
	return s == SlotFree || s == SlotExpired
}

type TimeSlot struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TrainerID string     `json:"trainer_id" bson:"trainer_id" validate:"required,mongodb"`
	Date      string     `json:"date" bson:"date" validate:"required,ymd"`
	Start     string     `json:"start" bson:"start" validate:"required,hhmm"`
	End       string     `json:"end" bson:"end" validate:"required,slot_end"`
	Order     int        `json:"order" bson:"order" validate:"min=0,max=1439"`
	Status    SlotStatus `json:"status" bson:"status" validate:"required,oneof=free booked expired"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	ExpiredAt *time.Time `json:"expired_at,omitempty" bson:"expired_at,omitempty"`
}
