package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// Known reports whether r is one of the declared roles. Anything else
// (including the empty string) must never match a permission branch.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleClient:
		return true
	}
	return false
}

// User represents a user in the system (Admin, Trainer or Client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Onboarding fields ---
	// Filled in by the onboarding flow after registration.
	Name              string `bson:"name,omitempty" json:"name,omitempty"`
	Country           string `bson:"country,omitempty" json:"country,omitempty"`
	State             string `bson:"state,omitempty" json:"state,omitempty"`
	IsOnboarded       bool   `bson:"isOnboarded" json:"isOnboarded"`
	ProfilePictureURL string `bson:"profilePictureUrl,omitempty" json:"profilePictureUrl,omitempty"`
}

// Helper methods (Optional but can be useful)
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
