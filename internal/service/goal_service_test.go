package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/policy"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GoalRepoMock struct{ mock.Mock }

func (m *GoalRepoMock) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	args := m.Called(ctx, goal)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *GoalRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *GoalRepoMock) List(ctx context.Context, scope policy.Scope) ([]domain.Goal, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *GoalRepoMock) Update(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *GoalRepoMock) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func TestGoalCreateOwnedByCallingClient(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	goalID := primitive.NewObjectID()
	goalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Goal")).Return(goalID, nil).Once()

	goal, err := svc.Create(ctx, client, GoalInput{Description: "lose 5kg", TargetValue: "5kg"})
	require.NoError(t, err)
	assert.Equal(t, client.ID, goal.UserID)
	assert.Equal(t, "lose 5kg", goal.Description)

	persisted := goalRepo.Calls[0].Arguments.Get(1).(*domain.Goal)
	assert.Equal(t, client.ID, persisted.UserID)
}

func TestGoalCreateDeniedForTrainers(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleTrainer}
	_, err := svc.Create(ctx, trainer, GoalInput{Description: "not mine to set"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	goalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// A client's list is always filtered to their own goals; there is no way
// to request someone else's through the service.
func TestGoalListClientSeesOnlyOwnGoals(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	goalRepo.On("List", ctx, mock.MatchedBy(func(s policy.Scope) bool {
		id, ok := s.UserID()
		return ok && id == client.ID
	})).Return([]domain.Goal{{UserID: client.ID, Description: "lose 5kg"}}, nil).Once()

	goals, err := svc.List(ctx, client)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, client.ID, goals[0].UserID)
	goalRepo.AssertExpectations(t)
}

// Trainers see goals across all subscribed clients, whatever the
// subscription status.
func TestGoalListTrainerSeesSubscribedClients(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	trainer := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleTrainer}
	clientIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	subs.On("ClientIDsByTrainer", ctx, trainer.ID).Return(clientIDs, nil).Once()
	goalRepo.On("List", ctx, mock.MatchedBy(func(s policy.Scope) bool {
		in, ok := s.UserIn()
		return ok && len(in) == 2
	})).Return([]domain.Goal{}, nil).Once()

	_, err := svc.List(ctx, trainer)
	require.NoError(t, err)
	subs.AssertExpectations(t)
	goalRepo.AssertExpectations(t)
}

func TestGoalUpdateRejectsForeignGoal(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	goalID := primitive.NewObjectID()
	foreign := &domain.Goal{ID: goalID, UserID: primitive.NewObjectID(), Description: "someone else's"}
	goalRepo.On("GetByID", ctx, goalID).Return(foreign, nil).Once()

	_, err := svc.Update(ctx, client, goalID, GoalInput{Description: "hijack"})
	assert.ErrorIs(t, err, ErrGoalAccessDenied)
	goalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGoalDeleteScopedToOwner(t *testing.T) {
	subs := new(SubsSourceMock)
	goalRepo := new(GoalRepoMock)
	svc := NewGoalService(goalRepo, policy.NewEngine(subs))
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	goalID := primitive.NewObjectID()
	goalRepo.On("Delete", ctx, goalID, client.ID).Return(nil).Once()

	err := svc.Delete(ctx, client, goalID)
	require.NoError(t, err)
	goalRepo.AssertExpectations(t)
}
