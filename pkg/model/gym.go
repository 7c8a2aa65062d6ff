package model

type Gym struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" bson:"address" validate:"omitempty,max=200"`
	City    string `json:"city" bson:"city" validate:"omitempty,max=50"`
	Order   int    `json:"order" bson:"order"`
}

// Trainer is the trainer profile linked to an authenticated user.
type Trainer struct {
	ID             string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID         string `json:"user_id" bson:"user_id" validate:"required,max=128"`
	GymID          string `json:"gym_id" bson:"gym_id" validate:"required,mongodb"`
	Name           string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialization string `json:"specialization,omitempty" bson:"specialization,omitempty" validate:"omitempty,max=100"`
	Order          int    `json:"order" bson:"order"`
}
