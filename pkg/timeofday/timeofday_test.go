package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "9:05", want: 545},
		{in: " 10:30 ", want: 630},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "24:00", want: MinutesPerDay},
		{in: "24:01", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "1000", wantErr: true},
		{in: "10:5", wantErr: true},
		{in: "", wantErr: true},
		{in: EndOfDayLabel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnd_AcceptsDisplaySentinel(t *testing.T) {
	got, err := ParseEnd(EndOfDayLabel)
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, got)

	got, err = ParseEnd("11:00")
	require.NoError(t, err)
	assert.Equal(t, 660, got)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00", FormatClock(540))
	assert.Equal(t, "00:05", FormatClock(5))
	assert.Equal(t, "23:30", FormatClock(1410))
	assert.Equal(t, EndOfDayLabel, FormatClock(MinutesPerDay))
}

func TestParseDate_Separators(t *testing.T) {
	dash, err := ParseDate("2024-06-01", time.UTC)
	require.NoError(t, err)
	slash, err := ParseDate("2024/06/01", time.UTC)
	require.NoError(t, err)
	assert.True(t, dash.Equal(slash))

	unpadded, err := ParseDate("2024-6-1", time.UTC)
	require.NoError(t, err)
	assert.True(t, dash.Equal(unpadded))
	unpaddedSlash, err := ParseDate("2024/6/01", time.UTC)
	require.NoError(t, err)
	assert.True(t, dash.Equal(unpaddedSlash))

	_, err = ParseDate("01.06.2024", time.UTC)
	assert.ErrorIs(t, err, ErrMalformedDate)
	_, err = ParseDate("2024-13-01", time.UTC)
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	start, err := At("2024-06-01", 540, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, loc), start)

	end, err := At("2024/06/01", MinutesPerDay, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, loc), end)
}

func TestToday_UsesLocation(t *testing.T) {
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	ahead := time.FixedZone("UTC+3", 3*60*60)

	assert.Equal(t, "2024-06-01", Today(now, time.UTC))
	assert.Equal(t, "2024-06-02", Today(now, ahead))
}

func TestHorizon(t *testing.T) {
	now := time.Date(2024, 2, 26, 8, 0, 0, 0, time.UTC)

	got := Horizon(now, time.UTC, 7)
	assert.Equal(t, []string{
		"2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29",
		"2024-03-01", "2024-03-02", "2024-03-03",
	}, got)
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-06-01"))
	assert.False(t, IsDate("2024/06/01"))
	assert.False(t, IsDate("2024-6-1"))
}
