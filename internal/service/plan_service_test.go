package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubsSourceMock struct{ mock.Mock }

func (m *SubsSourceMock) Exists(ctx context.Context, trainerID, clientID primitive.ObjectID, status string) (bool, error) {
	args := m.Called(ctx, trainerID, clientID, status)
	return args.Bool(0), args.Error(1)
}

func (m *SubsSourceMock) ClientIDsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

type PlanRepoMock struct{ mock.Mock }

func (m *PlanRepoMock) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *PlanRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *PlanRepoMock) List(ctx context.Context, scope policy.Scope) ([]domain.Plan, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plan), args.Error(1)
}

func (m *PlanRepoMock) Update(ctx context.Context, plan *domain.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *PlanRepoMock) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	return m.Called(ctx, id, trainerID).Error(0)
}

func trainerPrincipal() *policy.Principal {
	return &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleTrainer}
}

func TestPlanCreateForcesTrainerToPrincipal(t *testing.T) {
	subs := new(SubsSourceMock)
	planRepo := new(PlanRepoMock)
	svc := NewPlanService(planRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := trainerPrincipal()
	clientID := primitive.NewObjectID()
	planID := primitive.NewObjectID()

	subs.On("Exists", ctx, trainer.ID, clientID, "active").Return(true, nil).Once()
	planRepo.On("Create", ctx, mock.AnythingOfType("*domain.Plan")).Return(planID, nil).Once()

	plan, err := svc.Create(ctx, trainer, PlanInput{
		ClientID:      clientID,
		Date:          time.Now(),
		NutritionPlan: "Eat healthy",
		ExercisePlan:  "Run 5k",
	})
	require.NoError(t, err)

	// The persisted trainer is always the acting principal, never anything
	// the payload carried.
	assert.Equal(t, trainer.ID, plan.TrainerID)
	assert.Equal(t, clientID, plan.UserID)
	assert.Equal(t, planID, plan.ID)

	persisted := planRepo.Calls[0].Arguments.Get(1).(*domain.Plan)
	assert.Equal(t, trainer.ID, persisted.TrainerID)

	subs.AssertExpectations(t)
	planRepo.AssertExpectations(t)
}

func TestPlanCreateDeniedWithoutActiveSubscription(t *testing.T) {
	subs := new(SubsSourceMock)
	planRepo := new(PlanRepoMock)
	svc := NewPlanService(planRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := trainerPrincipal()
	clientID := primitive.NewObjectID()

	subs.On("Exists", ctx, trainer.ID, clientID, "active").Return(false, nil).Once()

	_, err := svc.Create(ctx, trainer, PlanInput{ClientID: clientID, Date: time.Now()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), policy.ReasonNotSubscribed)

	// Nothing is written on denial.
	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlanCreateDeniedForNonTrainers(t *testing.T) {
	subs := new(SubsSourceMock)
	planRepo := new(PlanRepoMock)
	svc := NewPlanService(planRepo, policy.NewEngine(subs))
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}

	_, err := svc.Create(ctx, client, PlanInput{ClientID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The gate is never consulted when the role check already fails.
	subs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanUpdateRejectsForeignPlan(t *testing.T) {
	subs := new(SubsSourceMock)
	planRepo := new(PlanRepoMock)
	svc := NewPlanService(planRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := trainerPrincipal()
	planID := primitive.NewObjectID()
	foreign := &domain.Plan{
		ID:        planID,
		UserID:    primitive.NewObjectID(),
		TrainerID: primitive.NewObjectID(), // someone else's plan
	}
	planRepo.On("GetByID", ctx, planID).Return(foreign, nil).Once()

	_, err := svc.Update(ctx, trainer, planID, PlanInput{Date: time.Now()})
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
	planRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPlanListScopedByRole(t *testing.T) {
	subs := new(SubsSourceMock)
	planRepo := new(PlanRepoMock)
	svc := NewPlanService(planRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := trainerPrincipal()
	planRepo.On("List", ctx, mock.MatchedBy(func(s policy.Scope) bool {
		id, ok := s.TrainerID()
		return ok && id == trainer.ID
	})).Return([]domain.Plan{}, nil).Once()

	_, err := svc.List(ctx, trainer)
	require.NoError(t, err)
	planRepo.AssertExpectations(t)
}
