package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metric is a single measurement recorded for a user, e.g. weight or
// body fat percentage. Type is free text.
type Metric struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Type       string             `bson:"type" json:"type"` // e.g., "weight", "body_fat"
	Value      float64            `bson:"value" json:"value"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
