package usecase

import (
	"context"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner")
	r1 := e.register(t, "r1")
	r2 := e.register(t, "r2")
	first := e.createListing(t, owner, "First")
	second := e.createListing(t, owner, "Second")

	p, err := e.users.Profile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, p.AverageRating)
	assert.Zero(t, p.TotalFeedback)

	_, err = e.feedback.Add(ctx, r1, first.ID, 5, nil)
	require.NoError(t, err)
	_, err = e.feedback.Add(ctx, r2, second.ID, 2, nil)
	require.NoError(t, err)

	p, err = e.users.Profile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", p.User.Username)
	require.NotNil(t, p.AverageRating)
	assert.Equal(t, 3.5, *p.AverageRating)
	assert.Equal(t, int64(2), p.TotalFeedback)
	assert.Len(t, p.Listings, 2)

	_, err = e.users.Profile(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrentActor(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner")
	visitor := e.register(t, "visitor")
	l := e.createListing(t, owner, "Tent")
	_, err := e.interests.ShowInterest(ctx, visitor, l.ID, nil)
	require.NoError(t, err)

	me, err := e.users.CurrentActor(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, owner, me.Principal)
	assert.Equal(t, int64(1), me.UnreadCount)
}
