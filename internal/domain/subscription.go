package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionStatusActive is the one status value with authorization
// meaning: a plan may only be written for a client while a subscription
// with exactly this status exists. The status field itself is free text;
// other values ("inactive", "expired", case variants, ...) simply do not
// authorize anything.
const SubscriptionStatusActive = "active"

// Subscription links a client to a trainer for a period of time.
// Created by the client; status transitions happen elsewhere and are
// always re-read, never cached, when a decision depends on them.
type Subscription struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
