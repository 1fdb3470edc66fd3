package repository

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.User, error)
	// UpdateOnboarding sets the onboarding fields and flips isOnboarded.
	UpdateOnboarding(ctx context.Context, id primitive.ObjectID, name, country, state string) error
	SetProfilePictureURL(ctx context.Context, id primitive.ObjectID, url string) error
}

// TrainerProfileRepository defines the interface for trainer profile data.
type TrainerProfileRepository interface {
	Create(ctx context.Context, profile *domain.TrainerProfile) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainerProfile, error)
	Update(ctx context.Context, profile *domain.TrainerProfile) error
}

// SubscriptionRepository defines the interface for subscription data.
// Exists and ClientIDsByTrainer also satisfy policy.SubscriptionSource,
// which is how the policy engine reaches subscription storage.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.Subscription, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Exists(ctx context.Context, trainerID, clientID primitive.ObjectID, status string) (bool, error)
	ClientIDsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// GoalRepository defines the interface for goal data.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error // Ensure the client owns the goal
}

// PlanRepository defines the interface for plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure the trainer owns the plan
}

// DailyLogRepository defines the interface for daily log data.
type DailyLogRepository interface {
	Create(ctx context.Context, log *domain.DailyLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyLog, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.DailyLog, error)
	Update(ctx context.Context, log *domain.DailyLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MetricRepository defines the interface for metric data.
type MetricRepository interface {
	Create(ctx context.Context, metric *domain.Metric) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Metric, error)
	List(ctx context.Context, scope policy.Scope) ([]domain.Metric, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
