package repository

import (
	"testing"

	"coachbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter(t *testing.T) {
	trainer := listFilter("t1", "2024-06-01", true)
	assert.Equal(t, bson.M{"trainer_id": "t1", "date": "2024-06-01"}, trainer)

	client := listFilter("t1", "2024-06-01", false)
	assert.Equal(t, bson.M{"$ne": model.SlotExpired}, client["status"])
}

func TestExpireFilter_OnlyFreeSlotsBeforeToday(t *testing.T) {
	f := expireFilter("t1", "2024-06-01")

	assert.Equal(t, "t1", f["trainer_id"])
	assert.Equal(t, model.SlotFree, f["status"])
	assert.Equal(t, bson.M{"$lt": "2024-06-01"}, f["date"])
}

func TestRemovableFilter(t *testing.T) {
	id := primitive.NewObjectID()
	f := removableFilter(id, "t1")

	assert.Equal(t, id, f["_id"])
	assert.Equal(t, "t1", f["trainer_id"])
	assert.Equal(t, bson.M{"$in": []model.SlotStatus{model.SlotFree, model.SlotExpired}}, f["status"])
}

func TestStatusFilter(t *testing.T) {
	id := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": id, "status": model.SlotBooked}, statusFilter(id, model.SlotBooked))
}
