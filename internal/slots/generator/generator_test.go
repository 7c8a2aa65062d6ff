package generator

import (
	"testing"

	slotserrors "coachbooking/internal/slots/errors"
	"coachbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainerID = "665f1a2b3c4d5e6f70819203"

func req(start, end string, duration int) Request {
	return Request{TrainerID: trainerID, Date: "2024-06-01", Start: start, End: end, DurationMin: duration}
}

func TestGenerate_ExampleMorning(t *testing.T) {
	slots, err := New(30).Generate(req("09:00", "11:00", 60), nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "10:00", slots[0].End)
	assert.Equal(t, 540, slots[0].Order)
	assert.Equal(t, "10:00", slots[1].Start)
	assert.Equal(t, "11:00", slots[1].End)
	assert.Equal(t, 600, slots[1].Order)
	for _, s := range slots {
		assert.Equal(t, model.SlotFree, s.Status)
		assert.Equal(t, trainerID, s.TrainerID)
		assert.Equal(t, "2024-06-01", s.Date)
	}
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name string
		r    Request
		want error
	}{
		{name: "malformed start", r: req("9am", "11:00", 60), want: slotserrors.ErrMalformedTime},
		{name: "malformed end", r: req("09:00", "11:75", 60), want: slotserrors.ErrMalformedTime},
		{name: "start at end of day", r: req("24:00", "24:00", 60), want: slotserrors.ErrMalformedTime},
		{name: "zero duration", r: req("09:00", "11:00", 0), want: slotserrors.ErrDurationTooShort},
		{name: "negative duration", r: req("09:00", "11:00", -30), want: slotserrors.ErrDurationTooShort},
		{name: "below minimum", r: req("09:00", "11:00", 20), want: slotserrors.ErrDurationTooShort},
		{name: "end equals start", r: req("09:00", "09:00", 30), want: slotserrors.ErrEndNotAfterStart},
		{name: "end before start", r: req("11:00", "09:00", 30), want: slotserrors.ErrEndNotAfterStart},
		{name: "span too short", r: req("09:00", "09:45", 60), want: slotserrors.ErrSpanTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := New(30).Generate(tt.r, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, slots)
		})
	}
}

func TestGenerate_CountMatchesFloorOfSpan(t *testing.T) {
	tests := []struct {
		start, end string
		duration   int
		want       int
	}{
		{"09:00", "11:00", 60, 2},
		{"09:00", "11:30", 60, 2},
		{"08:15", "12:00", 45, 5},
		{"00:00", "24:00", 30, 48},
		{"22:00", "00:00+", 90, 1},
	}

	for _, tt := range tests {
		slots, err := New(30).Generate(req(tt.start, tt.end, tt.duration), nil)
		require.NoError(t, err)
		assert.Len(t, slots, tt.want, "%s-%s/%d", tt.start, tt.end, tt.duration)

		for i := 1; i < len(slots); i++ {
			assert.Less(t, slots[i-1].Order, slots[i].Order)
			assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must not overlap")
		}
	}
}

func TestGenerate_EndOfDayLabel(t *testing.T) {
	slots, err := New(30).Generate(req("23:00", "24:00", 60), nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "00:00+", slots[0].End)
}

func TestGenerate_SkipsExistingOrders(t *testing.T) {
	existing := []*model.TimeSlot{
		{TrainerID: trainerID, Date: "2024-06-01", Order: 600, Status: model.SlotBooked},
		{TrainerID: "665f1a2b3c4d5e6f70819299", Date: "2024-06-01", Order: 540},
		{TrainerID: trainerID, Date: "2024-06-02", Order: 660},
	}

	slots, err := New(30).Generate(req("09:00", "12:00", 60), existing)
	require.NoError(t, err)

	var orders []int
	for _, s := range slots {
		orders = append(orders, s.Order)
	}
	assert.Equal(t, []int{540, 660}, orders)
}

func TestGenerate_Idempotent(t *testing.T) {
	g := New(30)
	r := req("09:00", "13:00", 60)

	first, err := g.Generate(r, nil)
	require.NoError(t, err)
	require.Len(t, first, 4)

	second, err := g.Generate(r, first)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 2, Capacity(540, 660, 60))
	assert.Equal(t, 0, Capacity(660, 540, 60))
	assert.Equal(t, 0, Capacity(540, 660, 0))
}
