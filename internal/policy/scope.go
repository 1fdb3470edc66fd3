package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope is a declarative predicate narrowing which rows of a resource a
// principal may see. Repositories translate it into a storage filter; the
// engine only ever describes the restriction, it never queries.
//
// The zero Scope matches nothing, so a forgotten rule fails closed.
type Scope struct {
	all bool
	// At most one of the following is set.
	clientID  *primitive.ObjectID
	trainerID *primitive.ObjectID
	userID    *primitive.ObjectID
	userIn    []primitive.ObjectID
	hasUserIn bool
}

// Unrestricted returns the scope matching every row.
func Unrestricted() Scope {
	return Scope{all: true}
}

// Nothing returns the scope matching no rows.
func Nothing() Scope {
	return Scope{}
}

// ClientScope restricts to rows whose client field equals id.
func ClientScope(id primitive.ObjectID) Scope {
	return Scope{clientID: &id}
}

// TrainerScope restricts to rows whose trainer field equals id.
func TrainerScope(id primitive.ObjectID) Scope {
	return Scope{trainerID: &id}
}

// UserScope restricts to rows whose user field equals id.
func UserScope(id primitive.ObjectID) Scope {
	return Scope{userID: &id}
}

// UserInScope restricts to rows whose user field is one of ids.
// An empty set matches nothing.
func UserInScope(ids []primitive.ObjectID) Scope {
	return Scope{userIn: ids, hasUserIn: true}
}

// IsUnrestricted reports whether the scope matches every row.
func (s Scope) IsUnrestricted() bool {
	return s.all
}

// IsEmpty reports whether the scope can never match a row.
func (s Scope) IsEmpty() bool {
	if s.all || s.clientID != nil || s.trainerID != nil || s.userID != nil {
		return false
	}
	if s.hasUserIn {
		return len(s.userIn) == 0
	}
	return true
}

// ClientID returns the client restriction, if any.
func (s Scope) ClientID() (primitive.ObjectID, bool) {
	if s.clientID == nil {
		return primitive.NilObjectID, false
	}
	return *s.clientID, true
}

// TrainerID returns the trainer restriction, if any.
func (s Scope) TrainerID() (primitive.ObjectID, bool) {
	if s.trainerID == nil {
		return primitive.NilObjectID, false
	}
	return *s.trainerID, true
}

// UserID returns the user restriction, if any.
func (s Scope) UserID() (primitive.ObjectID, bool) {
	if s.userID == nil {
		return primitive.NilObjectID, false
	}
	return *s.userID, true
}

// UserIn returns the user-membership restriction, if any.
func (s Scope) UserIn() ([]primitive.ObjectID, bool) {
	return s.userIn, s.hasUserIn
}
