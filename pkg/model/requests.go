package model

type GenerateSlotsRequest struct {
	Date        string `json:"date" validate:"required,ymd"`
	Start       string `json:"start" validate:"required,hhmm"`
	End         string `json:"end" validate:"required,slot_end"`
	DurationMin int    `json:"duration_min" validate:"required,min=1,max=1440"`
}

type GenerateSlotsResult struct {
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	Slots   []*TimeSlot `json:"slots"`
}

type BookRequest struct {
	SlotID string `json:"slot_id" validate:"required,mongodb"`
}

type CheckinRequest struct {
	Token string `json:"token" validate:"required,max=512"`
}

type SweepResult struct {
	Expired int64 `json:"expired"`
}

type CheckinToken struct {
	ReservationID string `json:"reservation_id"`
	Token         string `json:"token"`
}
