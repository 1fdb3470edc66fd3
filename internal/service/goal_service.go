package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalAccessDenied = errors.New("access denied to modify this goal")
)

// GoalInput carries the caller-supplied fields for a goal. The owning user
// is always the calling client on create; a user ID in the payload is
// ignored.
type GoalInput struct {
	Description string
	TargetValue string
	TargetDate  *time.Time
	Status      string
}

// --- Service Interface ---
type GoalService interface {
	List(ctx context.Context, principal *policy.Principal) ([]domain.Goal, error)
	Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Goal, error)
	Create(ctx context.Context, principal *policy.Principal, input GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input GoalInput) (*domain.Goal, error)
	Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error
}

// --- Service Implementation ---

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
	engine   *policy.Engine
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.GoalRepository, engine *policy.Engine) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		engine:   engine,
	}
}

// List returns the goals the principal may see: a client's own goals, or
// for a trainer the goals of every client they hold a subscription with.
// The scope comes from the engine; a caller-supplied user filter is never
// consulted.
func (s *goalService) List(ctx context.Context, principal *policy.Principal) ([]domain.Goal, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindGoal, policy.OpList)
	if err != nil {
		return nil, err
	}
	return s.goalRepo.List(ctx, scope)
}

// Get returns a single goal if it falls inside the principal's scope.
func (s *goalService) Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Goal, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindGoal, policy.OpRetrieve)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if !goalInScope(scope, goal) {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

// Create records a new goal owned by the calling client.
func (s *goalService) Create(ctx context.Context, principal *policy.Principal, input GoalInput) (*domain.Goal, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindGoal, policy.OpCreate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	goal := &domain.Goal{
		UserID:      principal.ID, // forced, regardless of payload
		Description: input.Description,
		TargetValue: input.TargetValue,
		TargetDate:  input.TargetDate,
		Status:      input.Status,
	}

	goalID, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = goalID
	return goal, nil
}

// Update modifies a goal owned by the calling client.
func (s *goalService) Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input GoalInput) (*domain.Goal, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindGoal, policy.OpUpdate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	// Ownership check: clients can only touch their own goals.
	if goal.UserID != principal.ID {
		return nil, ErrGoalAccessDenied
	}

	goal.Description = input.Description
	goal.TargetValue = input.TargetValue
	goal.TargetDate = input.TargetDate
	goal.Status = input.Status

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// Delete removes a goal owned by the calling client.
func (s *goalService) Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindGoal, policy.OpDestroy, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return denied(decision.Reason)
	}

	// The repository filters on owner, so a foreign goal reads as not found.
	err = s.goalRepo.Delete(ctx, id, principal.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

// goalInScope reports whether a row is visible under the scope.
func goalInScope(scope policy.Scope, goal *domain.Goal) bool {
	if scope.IsUnrestricted() {
		return true
	}
	if id, ok := scope.UserID(); ok {
		return goal.UserID == id
	}
	if ids, ok := scope.UserIn(); ok {
		for _, id := range ids {
			if goal.UserID == id {
				return true
			}
		}
	}
	return false
}
