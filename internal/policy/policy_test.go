package policy

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubsMock struct{ mock.Mock }

func (m *SubsMock) Exists(ctx context.Context, trainerID, clientID primitive.ObjectID, status string) (bool, error) {
	args := m.Called(ctx, trainerID, clientID, status)
	return args.Bool(0), args.Error(1)
}

func (m *SubsMock) ClientIDsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func principal(role domain.Role) *Principal {
	return &Principal{ID: primitive.NewObjectID(), Role: role}
}

func TestScopeSubscription(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	admin := principal(domain.RoleAdmin)
	scope, err := engine.Scope(ctx, admin, KindSubscription, OpList)
	require.NoError(t, err)
	assert.True(t, scope.IsUnrestricted())

	trainer := principal(domain.RoleTrainer)
	scope, err = engine.Scope(ctx, trainer, KindSubscription, OpList)
	require.NoError(t, err)
	id, ok := scope.TrainerID()
	require.True(t, ok)
	assert.Equal(t, trainer.ID, id)

	client := principal(domain.RoleClient)
	scope, err = engine.Scope(ctx, client, KindSubscription, OpList)
	require.NoError(t, err)
	id, ok = scope.ClientID()
	require.True(t, ok)
	assert.Equal(t, client.ID, id)
}

// Only admins may ever see the full subscription table.
func TestScopeSubscriptionNeverUnrestrictedForNonAdmins(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleTrainer, domain.RoleClient, "superuser", ""} {
		scope, err := engine.Scope(ctx, principal(role), KindSubscription, OpList)
		require.NoError(t, err)
		assert.False(t, scope.IsUnrestricted(), "role %q must not see all subscriptions", role)
	}

	scope, err := engine.Scope(ctx, nil, KindSubscription, OpList)
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestScopeGoal(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	client := principal(domain.RoleClient)
	scope, err := engine.Scope(ctx, client, KindGoal, OpList)
	require.NoError(t, err)
	id, ok := scope.UserID()
	require.True(t, ok)
	assert.Equal(t, client.ID, id, "a client lists exactly their own goals")

	// Trainers see goals of subscribed clients, any status.
	trainer := principal(domain.RoleTrainer)
	clientIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	subs.On("ClientIDsByTrainer", ctx, trainer.ID).Return(clientIDs, nil).Once()

	scope, err = engine.Scope(ctx, trainer, KindGoal, OpList)
	require.NoError(t, err)
	in, ok := scope.UserIn()
	require.True(t, ok)
	assert.Equal(t, clientIDs, in)
	subs.AssertExpectations(t)

	// Admins have no goal scope at all.
	scope, err = engine.Scope(ctx, principal(domain.RoleAdmin), KindGoal, OpList)
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestScopeGoalTrainerWithoutSubscriptions(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainer := principal(domain.RoleTrainer)
	subs.On("ClientIDsByTrainer", ctx, trainer.ID).Return([]primitive.ObjectID{}, nil).Once()

	scope, err := engine.Scope(ctx, trainer, KindGoal, OpList)
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty(), "no subscriptions means no visible goals")
}

func TestScopePlan(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	client := principal(domain.RoleClient)
	scope, err := engine.Scope(ctx, client, KindPlan, OpList)
	require.NoError(t, err)
	id, ok := scope.UserID()
	require.True(t, ok)
	assert.Equal(t, client.ID, id)

	trainer := principal(domain.RoleTrainer)
	scope, err = engine.Scope(ctx, trainer, KindPlan, OpList)
	require.NoError(t, err)
	id, ok = scope.TrainerID()
	require.True(t, ok)
	assert.Equal(t, trainer.ID, id)

	scope, err = engine.Scope(ctx, principal(domain.RoleAdmin), KindPlan, OpList)
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestScopeRejectsWriteOperations(t *testing.T) {
	engine := NewEngine(new(SubsMock))

	_, err := engine.Scope(context.Background(), principal(domain.RoleAdmin), KindPlan, OpCreate)
	assert.Error(t, err)
}

func TestAuthorizeRegisterAllowsUnauthenticated(t *testing.T) {
	engine := NewEngine(new(SubsMock))

	dec, err := engine.Authorize(context.Background(), nil, KindUser, OpRegister, nil)
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}

func TestAuthorizeOnboardSelfOnly(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	p := principal(domain.RoleClient)
	dec, err := engine.Authorize(ctx, p, KindUser, OpOnboard, &Payload{UserID: p.ID})
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	dec, err = engine.Authorize(ctx, p, KindUser, OpOnboard, &Payload{UserID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, ReasonNotSelf, dec.Reason)

	dec, err = engine.Authorize(ctx, nil, KindUser, OpOnboard, &Payload{UserID: p.ID})
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
}

func TestAuthorizeSubscriptionWrites(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	dec, err := engine.Authorize(ctx, principal(domain.RoleClient), KindSubscription, OpCreate, nil)
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	for _, role := range []domain.Role{domain.RoleTrainer, domain.RoleAdmin} {
		dec, err = engine.Authorize(ctx, principal(role), KindSubscription, OpCreate, nil)
		require.NoError(t, err)
		assert.False(t, dec.Allowed, "role %q must not create subscriptions", role)
	}

	// Lifecycle mutations are admin-only.
	for _, op := range []Operation{OpUpdate, OpPartialUpdate, OpDestroy} {
		dec, err = engine.Authorize(ctx, principal(domain.RoleAdmin), KindSubscription, op, nil)
		require.NoError(t, err)
		assert.True(t, dec.Allowed)

		dec, err = engine.Authorize(ctx, principal(domain.RoleClient), KindSubscription, op, nil)
		require.NoError(t, err)
		assert.False(t, dec.Allowed)
	}
}

func TestAuthorizeGoalWritesClientOnly(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	for _, op := range []Operation{OpCreate, OpUpdate, OpPartialUpdate, OpDestroy} {
		dec, err := engine.Authorize(ctx, principal(domain.RoleClient), KindGoal, op, nil)
		require.NoError(t, err)
		assert.True(t, dec.Allowed)

		dec, err = engine.Authorize(ctx, principal(domain.RoleTrainer), KindGoal, op, nil)
		require.NoError(t, err)
		assert.False(t, dec.Allowed)
	}
}

func TestAuthorizePlanCreate(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainer := principal(domain.RoleTrainer)
	clientID := primitive.NewObjectID()

	subs.On("Exists", ctx, trainer.ID, clientID, domain.SubscriptionStatusActive).Return(true, nil).Once()
	dec, err := engine.Authorize(ctx, trainer, KindPlan, OpCreate, &Payload{UserID: clientID})
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	subs.On("Exists", ctx, trainer.ID, clientID, domain.SubscriptionStatusActive).Return(false, nil).Once()
	dec, err = engine.Authorize(ctx, trainer, KindPlan, OpCreate, &Payload{UserID: clientID})
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, ReasonNotSubscribed, dec.Reason)

	subs.AssertExpectations(t)
}

// Two trainers, one client: only the trainer holding the active
// subscription may write a plan for the client.
func TestAuthorizePlanCreateActiveVsInactiveTrainer(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	clientID := primitive.NewObjectID()
	activeTrainer := principal(domain.RoleTrainer)
	inactiveTrainer := principal(domain.RoleTrainer)

	subs.On("Exists", ctx, activeTrainer.ID, clientID, "active").Return(true, nil)
	subs.On("Exists", ctx, inactiveTrainer.ID, clientID, "active").Return(false, nil)

	dec, err := engine.Authorize(ctx, activeTrainer, KindPlan, OpCreate, &Payload{UserID: clientID})
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	dec, err = engine.Authorize(ctx, inactiveTrainer, KindPlan, OpCreate, &Payload{UserID: clientID})
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, ReasonNotSubscribed, dec.Reason)
}

func TestAuthorizePlanCreateWithoutTargetClient(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainer := principal(domain.RoleTrainer)

	dec, err := engine.Authorize(ctx, trainer, KindPlan, OpCreate, nil)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)

	dec, err = engine.Authorize(ctx, trainer, KindPlan, OpCreate, &Payload{})
	require.NoError(t, err)
	assert.False(t, dec.Allowed)

	// The gate must never have been consulted for an absent client.
	subs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorizeDailyLogAndMetricRequireAuthenticationOnly(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()

	for _, kind := range []Kind{KindDailyLog, KindMetric} {
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleTrainer, domain.RoleClient} {
			dec, err := engine.Authorize(ctx, principal(role), kind, OpCreate, nil)
			require.NoError(t, err)
			assert.True(t, dec.Allowed)
		}

		dec, err := engine.Authorize(ctx, nil, kind, OpCreate, nil)
		require.NoError(t, err)
		assert.False(t, dec.Allowed)
	}
}

// A role value outside the declared set must hit denial everywhere; the
// empty scope and Deny are the only fallthrough outcomes.
func TestDefaultDenyForUnknownRole(t *testing.T) {
	engine := NewEngine(new(SubsMock))
	ctx := context.Background()
	bogus := principal("superuser")

	kinds := []Kind{KindUser, KindSubscription, KindGoal, KindPlan, KindDailyLog, KindMetric}
	for _, kind := range kinds {
		scope, err := engine.Scope(ctx, bogus, kind, OpList)
		require.NoError(t, err)
		assert.True(t, scope.IsEmpty(), "kind %q must scope unknown roles to nothing", kind)

		for _, op := range []Operation{OpCreate, OpUpdate, OpPartialUpdate, OpDestroy} {
			dec, err := engine.Authorize(ctx, bogus, kind, op, &Payload{UserID: primitive.NewObjectID()})
			require.NoError(t, err)
			assert.False(t, dec.Allowed, "kind %q op %q must deny unknown roles", kind, op)
		}
	}
}

func TestAuthorizeUnknownOperationDenies(t *testing.T) {
	engine := NewEngine(new(SubsMock))

	dec, err := engine.Authorize(context.Background(), principal(domain.RoleAdmin), KindUser, OpCreate, nil)
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
}
