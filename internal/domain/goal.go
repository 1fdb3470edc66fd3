package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a target a client sets for themselves, e.g. "lose 5kg".
// Owned and written by the client; trainers with a subscription to the
// client may read it.
type Goal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"` // The owning client
	Description string             `bson:"description" json:"description"`
	TargetValue string             `bson:"targetValue,omitempty" json:"targetValue,omitempty"`
	TargetDate  *time.Time         `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"` // e.g., "active", "completed"
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
