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
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTrainerNotFound      = errors.New("trainer user not found")
	ErrTrainerNotRole       = errors.New("user found but is not a trainer")
)

// SubscriptionInput carries the caller-supplied fields for creating or
// updating a subscription. Any client ID in the payload is ignored on
// create; the subscription is always recorded against the caller.
type SubscriptionInput struct {
	TrainerID primitive.ObjectID
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// --- Service Interface ---
type SubscriptionService interface {
	List(ctx context.Context, principal *policy.Principal) ([]domain.Subscription, error)
	Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Subscription, error)
	Create(ctx context.Context, principal *policy.Principal, input SubscriptionInput) (*domain.Subscription, error)
	Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input SubscriptionInput) (*domain.Subscription, error)
	Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error
}

// --- Service Implementation ---

// subscriptionService implements the SubscriptionService interface.
type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	engine   *policy.Engine
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	engine *policy.Engine,
) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		engine:   engine,
	}
}

// List returns the subscriptions the principal may see: their own for
// clients and trainers, everything for admins.
func (s *subscriptionService) List(ctx context.Context, principal *policy.Principal) ([]domain.Subscription, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindSubscription, policy.OpList)
	if err != nil {
		return nil, err
	}
	return s.subRepo.List(ctx, scope)
}

// Get returns a single subscription if it falls inside the principal's scope.
func (s *subscriptionService) Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Subscription, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindSubscription, policy.OpRetrieve)
	if err != nil {
		return nil, err
	}

	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if !subscriptionInScope(scope, sub) {
		// Out-of-scope rows are indistinguishable from absent ones.
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

// Create records a new subscription from the calling client to a trainer.
// The client field is forced to the principal's ID; a client ID supplied in
// the payload is discarded, not merged.
func (s *subscriptionService) Create(ctx context.Context, principal *policy.Principal, input SubscriptionInput) (*domain.Subscription, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindSubscription, policy.OpCreate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	// Verify the named trainer exists and actually is a trainer.
	trainer, err := s.userRepo.GetByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, ErrTrainerNotRole
	}

	sub := &domain.Subscription{
		ClientID:  principal.ID, // forced, regardless of payload
		TrainerID: input.TrainerID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    input.Status,
	}

	subID, err := s.subRepo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = subID
	return sub, nil
}

// Update modifies a subscription's dates and status. Admin only.
func (s *subscriptionService) Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input SubscriptionInput) (*domain.Subscription, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindSubscription, policy.OpUpdate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	sub.StartDate = input.StartDate
	sub.EndDate = input.EndDate
	sub.Status = input.Status

	if err := s.subRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription. Admin only.
func (s *subscriptionService) Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindSubscription, policy.OpDestroy, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return denied(decision.Reason)
	}

	err = s.subRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSubscriptionNotFound
	}
	return err
}

// subscriptionInScope reports whether a row is visible under the scope.
func subscriptionInScope(scope policy.Scope, sub *domain.Subscription) bool {
	if scope.IsUnrestricted() {
		return true
	}
	if id, ok := scope.ClientID(); ok {
		return sub.ClientID == id
	}
	if id, ok := scope.TrainerID(); ok {
		return sub.TrainerID == id
	}
	return false
}
