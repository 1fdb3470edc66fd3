package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerProfile holds the public-facing profile of a trainer.
// Created automatically when a user registers with the trainer role.
// It is informational only; no authorization decision reads it.
type TrainerProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"` // 1:1 with a trainer User
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Certifications string             `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Specialties    string             `bson:"specialties,omitempty" json:"specialties,omitempty"`
	Rating         float64            `bson:"rating" json:"rating"`
}
