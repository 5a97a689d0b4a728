package usecase

import (
	"context"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminOperationsRequireAdmin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")

	_, err := e.admin.ListUsers(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.ListListings(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.ListAdmins(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.ListFeedback(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.RecentInterests(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.RecentNotifications(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.admin.Dashboard(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, e.admin.DeleteUser(ctx, alice, alice.ID), domain.ErrForbidden)
}

func TestDashboard(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.adminPrincipal(t)
	owner := e.register(t, "owner")
	visitor := e.register(t, "visitor")
	l := e.createListing(t, owner, "Bike")
	_, err := e.interests.ShowInterest(ctx, visitor, l.ID, nil)
	require.NoError(t, err)
	_, err = e.feedback.Add(ctx, visitor, l.ID, 5, nil)
	require.NoError(t, err)

	d, err := e.admin.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, d.Users, 2)
	assert.Len(t, d.Listings, 1)
	assert.Len(t, d.Admins, 1)
	assert.Len(t, d.Feedback, 1)
	require.Len(t, d.RecentInterests, 1)
	assert.Equal(t, "Bike", d.RecentInterests[0].ListingTitle)
	require.Len(t, d.RecentNotifications, 2)
	assert.Equal(t, domain.NotificationFeedback, d.RecentNotifications[0].Type)
}

func TestDeleteUserRemovesEverythingReferencingThem(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.adminPrincipal(t)
	doomed := e.register(t, "doomed")
	friend := e.register(t, "friend")

	doomedListing := e.createListing(t, doomed, "Doomed's")
	friendListing := e.createListing(t, friend, "Friend's")

	_, err := e.interests.ShowInterest(ctx, friend, doomedListing.ID, nil)
	require.NoError(t, err)
	_, err = e.feedback.Add(ctx, friend, doomedListing.ID, 4, nil)
	require.NoError(t, err)
	_, err = e.interests.ShowInterest(ctx, doomed, friendListing.ID, nil)
	require.NoError(t, err)
	_, err = e.feedback.Add(ctx, doomed, friendListing.ID, 5, nil)
	require.NoError(t, err)

	require.NoError(t, e.admin.DeleteUser(ctx, admin, doomed.ID))

	assert.Zero(t, e.count(t, "users", "id = ?", doomed.ID))
	assert.Zero(t, e.count(t, "listings", "owner_user_id = ?", doomed.ID))
	assert.Zero(t, e.count(t, "interests", "interested_user_id = ? OR listing_id = ?", doomed.ID, doomedListing.ID))
	assert.Zero(t, e.count(t, "feedbacks", "reviewer_user_id = ? OR listing_id = ?", doomed.ID, doomedListing.ID))
	assert.Zero(t, e.count(t, "notifications", "recipient_user_id = ? OR sender_user_id = ? OR related_listing_id = ?", doomed.ID, doomed.ID, doomedListing.ID))

	assert.Equal(t, int64(1), e.count(t, "listings", "id = ?", friendListing.ID))
	e.publisher.AssertCalled(t, "Publish", mock.Anything, domain.SubjectUserDeleted, mock.Anything)

	assert.ErrorIs(t, e.admin.DeleteUser(ctx, admin, doomed.ID), domain.ErrNotFound)
}
