package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsActivelySubscribedQueriesExactStatus(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()

	// The gate asks for the literal "active", nothing else; "Active" or
	// "ACTIVE" rows never authorize because the lookup is an equality match.
	subs.On("Exists", ctx, trainerID, clientID, "active").Return(true, nil).Once()

	active, err := engine.IsActivelySubscribed(ctx, trainerID, clientID)
	require.NoError(t, err)
	assert.True(t, active)
	subs.AssertExpectations(t)
}

// Inserting an active row flips the answer to true; removing it flips it
// back. No result is cached between calls.
func TestIsActivelySubscribedReEvaluatesEveryCall(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()

	subs.On("Exists", ctx, trainerID, clientID, "active").Return(false, nil).Once()
	subs.On("Exists", ctx, trainerID, clientID, "active").Return(true, nil).Once()
	subs.On("Exists", ctx, trainerID, clientID, "active").Return(false, nil).Once()

	for _, want := range []bool{false, true, false} {
		active, err := engine.IsActivelySubscribed(ctx, trainerID, clientID)
		require.NoError(t, err)
		assert.Equal(t, want, active)
	}
	subs.AssertExpectations(t)
}

func TestIsActivelySubscribedNilIDs(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	active, err := engine.IsActivelySubscribed(ctx, primitive.NilObjectID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, active)

	active, err = engine.IsActivelySubscribed(ctx, primitive.NewObjectID(), primitive.NilObjectID)
	require.NoError(t, err)
	assert.False(t, active)

	subs.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIsActivelySubscribedPropagatesLookupErrors(t *testing.T) {
	subs := new(SubsMock)
	engine := NewEngine(subs)
	ctx := context.Background()

	trainerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	lookupErr := errors.New("connection reset")

	subs.On("Exists", ctx, trainerID, clientID, "active").Return(false, lookupErr).Once()

	active, err := engine.IsActivelySubscribed(ctx, trainerID, clientID)
	assert.False(t, active)
	assert.ErrorIs(t, err, lookupErr)
}
