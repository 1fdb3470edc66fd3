package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyLog records what a client actually did on a given day against a plan.
type DailyLog struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID               primitive.ObjectID `bson:"planId" json:"planId"`
	Date                 time.Time          `bson:"date" json:"date"`
	ActualNutrition      string             `bson:"actualNutrition,omitempty" json:"actualNutrition,omitempty"`
	ActualExercise       string             `bson:"actualExercise,omitempty" json:"actualExercise,omitempty"`
	CompletionPercentage float64            `bson:"completionPercentage" json:"completionPercentage"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
