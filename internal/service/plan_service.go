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
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanAccessDenied = errors.New("access denied to modify this plan")
)

// PlanInput carries the caller-supplied fields for a plan. ClientID is the
// client the plan targets; any trainer ID in the payload is ignored and
// replaced by the calling trainer on create.
type PlanInput struct {
	ClientID      primitive.ObjectID
	Date          time.Time
	NutritionPlan string
	ExercisePlan  string
}

// --- Service Interface ---
type PlanService interface {
	List(ctx context.Context, principal *policy.Principal) ([]domain.Plan, error)
	Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Plan, error)
	Create(ctx context.Context, principal *policy.Principal, input PlanInput) (*domain.Plan, error)
	Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input PlanInput) (*domain.Plan, error)
	Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	engine   *policy.Engine
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, engine *policy.Engine) PlanService {
	return &planService{
		planRepo: planRepo,
		engine:   engine,
	}
}

// List returns the plans the principal may see: their own for clients,
// authored ones for trainers.
func (s *planService) List(ctx context.Context, principal *policy.Principal) ([]domain.Plan, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindPlan, policy.OpList)
	if err != nil {
		return nil, err
	}
	return s.planRepo.List(ctx, scope)
}

// Get returns a single plan if it falls inside the principal's scope.
func (s *planService) Get(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) (*domain.Plan, error) {
	scope, err := s.engine.Scope(ctx, principal, policy.KindPlan, policy.OpRetrieve)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !planInScope(scope, plan) {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Create records a new plan for a client. The engine's decision covers
// both the trainer role and the active-subscription gate; it is made once,
// then the row is written with the trainer forced to the caller. A target
// client that does not exist cannot hold an active subscription, so it
// reads as a denial, not a crash.
func (s *planService) Create(ctx context.Context, principal *policy.Principal, input PlanInput) (*domain.Plan, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindPlan, policy.OpCreate, &policy.Payload{UserID: input.ClientID})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	plan := &domain.Plan{
		UserID:        input.ClientID,
		TrainerID:     principal.ID, // forced, regardless of payload
		Date:          input.Date,
		NutritionPlan: input.NutritionPlan,
		ExercisePlan:  input.ExercisePlan,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// Update modifies a plan authored by the calling trainer.
func (s *planService) Update(ctx context.Context, principal *policy.Principal, id primitive.ObjectID, input PlanInput) (*domain.Plan, error) {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindPlan, policy.OpUpdate, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, denied(decision.Reason)
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	// Authorship check: trainers can only touch plans they wrote.
	if plan.TrainerID != principal.ID {
		return nil, ErrPlanAccessDenied
	}

	plan.Date = input.Date
	plan.NutritionPlan = input.NutritionPlan
	plan.ExercisePlan = input.ExercisePlan

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// Delete removes a plan authored by the calling trainer.
func (s *planService) Delete(ctx context.Context, principal *policy.Principal, id primitive.ObjectID) error {
	decision, err := s.engine.Authorize(ctx, principal, policy.KindPlan, policy.OpDestroy, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return denied(decision.Reason)
	}

	// The repository filters on author, so a foreign plan reads as not found.
	err = s.planRepo.Delete(ctx, id, principal.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// planInScope reports whether a row is visible under the scope.
func planInScope(scope policy.Scope, plan *domain.Plan) bool {
	if scope.IsUnrestricted() {
		return true
	}
	if id, ok := scope.UserID(); ok {
		return plan.UserID == id
	}
	if id, ok := scope.TrainerID(); ok {
		return plan.TrainerID == id
	}
	return false
}
