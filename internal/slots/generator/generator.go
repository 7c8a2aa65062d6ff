// Package generator splits a trainer's time range into fixed-length slots.
package generator

import (
	"fmt"

	slotserrors "coachbooking/internal/slots/errors"
	"coachbooking/pkg/model"
	"coachbooking/pkg/timeofday"
)

type Request struct {
	TrainerID   string
	Date        string
	Start       string
	End         string
	DurationMin int
}

type Generator struct {
	MinDurationMin int
}

func New(minDurationMin int) Generator {
	return Generator{MinDurationMin: minDurationMin}
}

// Generate returns the free slots that fit in [Start, End) and whose start is
// not already taken by one of existing for the same trainer and date. Slots
// are ordered by start. An empty result with a nil error means every slot in
// the range already exists.
//
// Generate keeps no state: the same request and existing set always give the
// same drafts.
func (g Generator) Generate(req Request, existing []*model.TimeSlot) ([]*model.TimeSlot, error) {
	start, err := timeofday.ParseClock(req.Start)
	if err != nil || start >= timeofday.MinutesPerDay {
		return nil, fmt.Errorf("%w: start %q", slotserrors.ErrMalformedTime, req.Start)
	}
	end, err := timeofday.ParseEnd(req.End)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", slotserrors.ErrMalformedTime, req.End)
	}
	if req.DurationMin <= 0 || req.DurationMin < g.MinDurationMin {
		return nil, fmt.Errorf("%w: got %d, minimum %d", slotserrors.ErrDurationTooShort, req.DurationMin, g.MinDurationMin)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: %s-%s", slotserrors.ErrEndNotAfterStart, req.Start, req.End)
	}
	if end-start < req.DurationMin {
		return nil, fmt.Errorf("%w: %d minutes available, %d needed", slotserrors.ErrSpanTooShort, end-start, req.DurationMin)
	}

	taken := make(map[int]struct{}, len(existing))
	for _, s := range existing {
		if s.TrainerID == req.TrainerID && s.Date == req.Date {
			taken[s.Order] = struct{}{}
		}
	}

	var drafts []*model.TimeSlot
	for t := start; t+req.DurationMin <= end; t += req.DurationMin {
		if _, ok := taken[t]; ok {
			continue
		}
		drafts = append(drafts, &model.TimeSlot{
			TrainerID: req.TrainerID,
			Date:      req.Date,
			Start:     timeofday.FormatClock(t),
			End:       timeofday.FormatClock(t + req.DurationMin),
			Order:     t,
			Status:    model.SlotFree,
		})
	}

	return drafts, nil
}

// Capacity is the number of slots the range holds before de-duplication.
func Capacity(startMin, endMin, durationMin int) int {
	if durationMin <= 0 || endMin <= startMin {
		return 0
	}
	return (endMin - startMin) / durationMin
}
