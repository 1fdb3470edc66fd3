package policy

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsActivelySubscribed reports whether a subscription row with exactly
// status "active" links the trainer to the client. It is the precondition
// for writing a plan, and is exposed on its own so handlers can use it for
// UI hints.
//
// The check is a fresh query every call. Subscription status can change at
// any time, so the result is never memoized; a subscription revoked between
// this check and a subsequent plan write committing is an accepted race.
func (e *Engine) IsActivelySubscribed(ctx context.Context, trainerID, clientID primitive.ObjectID) (bool, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return false, nil
	}
	return e.subs.Exists(ctx, trainerID, clientID, domain.SubscriptionStatusActive)
}
