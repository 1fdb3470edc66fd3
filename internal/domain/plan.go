package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a nutrition/exercise plan a trainer writes for a client.
// Creating one requires an active subscription between the two.
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`       // Who the plan is for (the client)
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who authored the plan
	Date          time.Time          `bson:"date" json:"date"`
	NutritionPlan string             `bson:"nutritionPlan,omitempty" json:"nutritionPlan,omitempty"`
	ExercisePlan  string             `bson:"exercisePlan,omitempty" json:"exercisePlan,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
