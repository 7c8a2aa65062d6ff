package checkin

import (
	"fmt"
	"time"

	apperrors "coachbooking/pkg/errors"
	"coachbooking/pkg/model"
	"coachbooking/pkg/timeofday"
)

type Reason string

const (
	ReasonMalformedToken Reason = "malformed_token"
	ReasonNotFound       Reason = "not_found"
	ReasonNotOwner       Reason = "not_owner"
	ReasonWrongStatus    Reason = "wrong_status"
	ReasonBadSchedule    Reason = "bad_schedule"
	ReasonTooEarly       Reason = "too_early"
	ReasonTooLate        Reason = "too_late"
)

// Error is a rejected check-in. Fields beyond Reason are set when they apply.
type Error struct {
	Reason        Reason
	ReservationID string
	Status        model.ReservationStatus
	Window        Window
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("check-in rejected: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("check-in rejected: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AppError maps the rejection onto the API error taxonomy. The result wraps
// e, so errors.As still finds the Reason.
func (e *Error) AppError() *apperrors.AppError {
	var appErr *apperrors.AppError
	switch e.Reason {
	case ReasonMalformedToken:
		appErr = apperrors.MalformedToken("check-in token is not valid")
	case ReasonNotFound:
		appErr = apperrors.NotFoundWithID("reservation", e.ReservationID)
	case ReasonNotOwner:
		appErr = apperrors.Forbidden("Reservation belongs to another user")
	case ReasonWrongStatus:
		appErr = apperrors.WrongStatus(string(e.Status))
	case ReasonBadSchedule:
		appErr = apperrors.BadSchedule("reservation schedule cannot be read")
	case ReasonTooEarly:
		appErr = apperrors.TooEarly(e.Window.Start.Format(time.RFC3339))
	case ReasonTooLate:
		appErr = apperrors.TooLate(e.Window.End.Format(time.RFC3339))
	default:
		appErr = apperrors.Internal("check-in rejected", nil)
	}
	appErr.Err = e
	return appErr.WithDetails(map[string]any{"reason": string(e.Reason)})
}

// Window is the inclusive interval during which check-in is allowed.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ScheduleWindow combines the reservation's date with its start and end in
// loc. An end of "00:00+" or "24:00" is midnight after the date.
func ScheduleWindow(date, start, end string, loc *time.Location) (Window, error) {
	startMin, err := timeofday.ParseClock(start)
	if err != nil || startMin >= timeofday.MinutesPerDay {
		return Window{}, fmt.Errorf("start %q: %w", start, timeofday.ErrMalformedClock)
	}
	endMin, err := timeofday.ParseEnd(end)
	if err != nil {
		return Window{}, fmt.Errorf("end %q: %w", end, err)
	}
	if endMin <= startMin {
		return Window{}, fmt.Errorf("end %q is not after start %q", end, start)
	}

	from, err := timeofday.At(date, startMin, loc)
	if err != nil {
		return Window{}, err
	}
	to, err := timeofday.At(date, endMin, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: from, End: to}, nil
}

// Validate applies ownership, the status gate, schedule parsing and the time
// window, in that order. A checkedIn reservation passes so that re-scans are
// idempotent; the caller decides whether to write.
func Validate(r *model.Reservation, userID string, now time.Time, loc *time.Location) (Window, error) {
	if r.UserID != userID {
		return Window{}, &Error{Reason: ReasonNotOwner, ReservationID: r.ID}
	}

	if r.Status != model.ReservationConfirmed && r.Status != model.ReservationCheckedIn {
		return Window{}, &Error{Reason: ReasonWrongStatus, ReservationID: r.ID, Status: r.Status}
	}

	window, err := ScheduleWindow(r.Date, r.Start, r.End, loc)
	if err != nil {
		return Window{}, &Error{Reason: ReasonBadSchedule, ReservationID: r.ID, Err: err}
	}

	if now.Before(window.Start) {
		return window, &Error{Reason: ReasonTooEarly, ReservationID: r.ID, Window: window}
	}
	if now.After(window.End) {
		return window, &Error{Reason: ReasonTooLate, ReservationID: r.ID, Window: window}
	}
	return window, nil
}
