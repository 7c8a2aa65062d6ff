package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverEveryStore(t *testing.T) {
	collections := Collections()

	assert.Len(t, collections, 4)
	for _, name := range []string{"Gyms", "Trainers", "Timeslots", "Reservations"} {
		def, ok := collections[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, def.Indexes, name)
		assert.Contains(t, def.Validator, "$jsonSchema", name)
	}
}

func TestTimeSlotsIndexes_UniqueOrderPerDay(t *testing.T) {
	idx := TimeSlotsIndexes[0]

	assert.Equal(t, bson.D{
		{Key: "trainer_id", Value: 1},
		{Key: "date", Value: 1},
		{Key: "order", Value: 1},
	}, idx.Keys)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}

func TestReservationsIndexes_LiveSlotIsPartial(t *testing.T) {
	idx := ReservationsIndexes[0]

	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.M{
		"status": bson.M{"$in": []string{"pending", "confirmed", "checkedIn"}},
	}, idx.Options.PartialFilterExpression)
}

func TestRequireServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		info    buildInfo
		wantErr bool
	}{
		{name: "6.0", info: buildInfo{Version: "6.0.14", VersionArray: []int32{6, 0, 14, 0}}},
		{name: "7.0", info: buildInfo{Version: "7.0.2", VersionArray: []int32{7, 0, 2, 0}}},
		{name: "5.0 lacks $in in partial indexes", info: buildInfo{Version: "5.0.26", VersionArray: []int32{5, 0, 26, 0}}, wantErr: true},
		{name: "unknown version", info: buildInfo{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireServerVersion(tt.info)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "6.0 or newer")
				return
			}
			assert.NoError(t, err)
		})
	}
}
