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

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *SubscriptionRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *SubscriptionRepoMock) List(ctx context.Context, scope policy.Scope) ([]domain.Subscription, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *SubscriptionRepoMock) Update(ctx context.Context, sub *domain.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *SubscriptionRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SubscriptionRepoMock) Exists(ctx context.Context, trainerID, clientID primitive.ObjectID, status string) (bool, error) {
	args := m.Called(ctx, trainerID, clientID, status)
	return args.Bool(0), args.Error(1)
}

func (m *SubscriptionRepoMock) ClientIDsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *UserRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, scope policy.Scope) ([]domain.User, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepoMock) UpdateOnboarding(ctx context.Context, id primitive.ObjectID, name, country, state string) error {
	return m.Called(ctx, id, name, country, state).Error(0)
}

func (m *UserRepoMock) SetProfilePictureURL(ctx context.Context, id primitive.ObjectID, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func newSubscriptionService(subRepo *SubscriptionRepoMock, userRepo *UserRepoMock) SubscriptionService {
	return NewSubscriptionService(subRepo, userRepo, policy.NewEngine(subRepo))
}

func TestSubscriptionCreateForcesClientToPrincipal(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	trainerID := primitive.NewObjectID()
	subID := primitive.NewObjectID()

	userRepo.On("GetByID", ctx, trainerID).Return(&domain.User{ID: trainerID, Role: domain.RoleTrainer}, nil).Once()
	subRepo.On("Create", ctx, mock.AnythingOfType("*domain.Subscription")).Return(subID, nil).Once()

	sub, err := svc.Create(ctx, client, SubscriptionInput{
		TrainerID: trainerID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
		Status:    "active",
	})
	require.NoError(t, err)

	// The payload carries no client ID at all; whatever the wire request
	// said, the row belongs to the caller.
	assert.Equal(t, client.ID, sub.ClientID)
	assert.Equal(t, trainerID, sub.TrainerID)

	persisted := subRepo.Calls[0].Arguments.Get(1).(*domain.Subscription)
	assert.Equal(t, client.ID, persisted.ClientID)

	subRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestSubscriptionCreateDeniedForNonClients(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleTrainer, domain.RoleAdmin, "superuser"} {
		p := &policy.Principal{ID: primitive.NewObjectID(), Role: role}
		_, err := svc.Create(ctx, p, SubscriptionInput{TrainerID: primitive.NewObjectID()})
		assert.ErrorIs(t, err, ErrPermissionDenied, "role %q", role)
	}
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionCreateRejectsNonTrainerTarget(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	targetID := primitive.NewObjectID()
	userRepo.On("GetByID", ctx, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleClient}, nil).Once()

	_, err := svc.Create(ctx, client, SubscriptionInput{TrainerID: targetID})
	assert.ErrorIs(t, err, ErrTrainerNotRole)
}

func TestSubscriptionListScopedByRole(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	subRepo.On("List", ctx, mock.MatchedBy(func(s policy.Scope) bool {
		id, ok := s.ClientID()
		return ok && id == client.ID
	})).Return([]domain.Subscription{}, nil).Once()

	_, err := svc.List(ctx, client)
	require.NoError(t, err)

	admin := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	subRepo.On("List", ctx, mock.MatchedBy(func(s policy.Scope) bool {
		return s.IsUnrestricted()
	})).Return([]domain.Subscription{}, nil).Once()

	_, err = svc.List(ctx, admin)
	require.NoError(t, err)
	subRepo.AssertExpectations(t)
}

func TestSubscriptionGetHidesOutOfScopeRows(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	subID := primitive.NewObjectID()
	foreign := &domain.Subscription{
		ID:        subID,
		ClientID:  primitive.NewObjectID(), // someone else's subscription
		TrainerID: primitive.NewObjectID(),
		Status:    "active",
	}
	subRepo.On("GetByID", ctx, subID).Return(foreign, nil).Once()

	_, err := svc.Get(ctx, client, subID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestSubscriptionDeleteAdminOnly(t *testing.T) {
	subRepo := new(SubscriptionRepoMock)
	userRepo := new(UserRepoMock)
	svc := newSubscriptionService(subRepo, userRepo)
	ctx := context.Background()

	subID := primitive.NewObjectID()
	client := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleClient}
	err := svc.Delete(ctx, client, subID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	admin := &policy.Principal{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	subRepo.On("Delete", ctx, subID).Return(nil).Once()
	err = svc.Delete(ctx, admin, subID)
	require.NoError(t, err)
	subRepo.AssertExpectations(t)
}
