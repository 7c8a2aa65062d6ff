package validator

import (
	"testing"

	"coachbooking/pkg/logger"
	"coachbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenerate(t *testing.T) {
	v := NewSlotValidator(logger.Discard())

	tests := []struct {
		name   string
		req    model.GenerateSlotsRequest
		fields []string
	}{
		{
			name: "valid",
			req:  model.GenerateSlotsRequest{Date: "2024-06-01", Start: "09:00", End: "11:00", DurationMin: 60},
		},
		{
			name: "end of day end",
			req:  model.GenerateSlotsRequest{Date: "2024-06-01", Start: "22:00", End: "24:00", DurationMin: 60},
		},
		{
			name:   "missing everything",
			req:    model.GenerateSlotsRequest{},
			fields: []string{"Date", "Start", "End", "DurationMin"},
		},
		{
			name:   "bad formats",
			req:    model.GenerateSlotsRequest{Date: "01/06/2024", Start: "24:00", End: "9", DurationMin: 60},
			fields: []string{"Date", "Start", "End"},
		},
		{
			name:   "duration too long",
			req:    model.GenerateSlotsRequest{Date: "2024-06-01", Start: "09:00", End: "11:00", DurationMin: 2000},
			fields: []string{"DurationMin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateGenerate(&tt.req)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs model.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			details := verrs.Details()
			for _, f := range tt.fields {
				assert.Contains(t, details, f)
			}
		})
	}
}
