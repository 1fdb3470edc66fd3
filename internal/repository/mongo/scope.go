package mongo

import (
	"alcyxob/fitness-coach/internal/policy"

	"go.mongodb.org/mongo-driver/bson"
)

// scopeFilter translates a policy scope into a MongoDB filter document.
// The second return value is false when the scope matches nothing, in
// which case callers must skip the query entirely and return no rows.
//
// Field names follow the collection conventions: clientId/trainerId on
// subscriptions, userId/trainerId on plans, userId elsewhere.
func scopeFilter(scope policy.Scope) (bson.M, bool) {
	if scope.IsEmpty() {
		return nil, false
	}
	if scope.IsUnrestricted() {
		return bson.M{}, true
	}

	filter := bson.M{}
	if id, ok := scope.ClientID(); ok {
		filter["clientId"] = id
	}
	if id, ok := scope.TrainerID(); ok {
		filter["trainerId"] = id
	}
	if id, ok := scope.UserID(); ok {
		filter["userId"] = id
	}
	if ids, ok := scope.UserIn(); ok {
		filter["userId"] = bson.M{"$in": ids}
	}
	return filter, true
}
