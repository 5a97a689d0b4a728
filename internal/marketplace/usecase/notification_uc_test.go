package usecase

import (
	"context"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/repository/gormdb"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationInbox(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.adminPrincipal(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	carol := e.register(t, "carol")
	aliceListing := e.createListing(t, alice, "Alice's")
	bobListing := e.createListing(t, bob, "Bob's")

	_, err := e.interests.ShowInterest(ctx, bob, aliceListing.ID, nil)
	require.NoError(t, err)
	_, err = e.interests.ShowInterest(ctx, carol, aliceListing.ID, nil)
	require.NoError(t, err)
	_, err = e.interests.ShowInterest(ctx, carol, bobListing.ID, nil)
	require.NoError(t, err)

	unread, err := e.notifications.UnreadCount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	inbox, err := e.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "carol", inbox[0].SenderUsername)

	_, err = e.notifications.MarkRead(ctx, bob, inbox[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.notifications.MarkRead(ctx, admin, inbox[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	read, err := e.notifications.MarkRead(ctx, alice, inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.RelatedListingID)
	assert.Equal(t, aliceListing.ID, *read.RelatedListingID)

	n, err := e.notifications.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, e.count(t, "notifications", "recipient_user_id = ? AND is_read = ?", alice.ID, false))
	assert.Equal(t, int64(1), e.count(t, "notifications", "recipient_user_id = ? AND is_read = ?", bob.ID, false))

	unread, err = e.notifications.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, unread)

	_, err = e.notifications.List(ctx, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.notifications.MarkAllRead(ctx, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.notifications.ClearAll(ctx, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNotificationDeleteAndClear(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	admin := e.adminPrincipal(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	carol := e.register(t, "carol")
	l := e.createListing(t, alice, "Alice's")

	_, err := e.interests.ShowInterest(ctx, bob, l.ID, nil)
	require.NoError(t, err)
	_, err = e.interests.ShowInterest(ctx, carol, l.ID, nil)
	require.NoError(t, err)
	inbox, err := e.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	assert.ErrorIs(t, e.notifications.Delete(ctx, bob, inbox[0].ID), domain.ErrForbidden)
	require.NoError(t, e.notifications.Delete(ctx, admin, inbox[0].ID))
	assert.ErrorIs(t, e.notifications.Delete(ctx, alice, inbox[0].ID), domain.ErrNotFound)

	cleared, err := e.notifications.ClearAll(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	cleared, err = e.notifications.ClearAll(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func TestCreateNotificationValidates(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice")
	store := gormdb.NewStore(e.db)

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos domain.Repositories) error {
		_, err := e.notifications.Create(ctx, repos, &domain.Notification{Message: "x", Type: "spam", RecipientUserID: alice.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = e.notifications.Create(ctx, repos, &domain.Notification{Message: " ", Type: domain.NotificationMessage, RecipientUserID: alice.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		d, err := e.notifications.Create(ctx, repos, &domain.Notification{Message: "hello", Type: domain.NotificationMessage, RecipientUserID: alice.ID})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", d.RecipientEmail)
		assert.NotZero(t, d.Notification.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestNotificationMessages(t *testing.T) {
	assert.Equal(t, "🔔 ann is interested in your listing: \"Tent\"", interestMessage("ann", "Tent", nil))
	assert.Equal(t, "📝 ann left a 5-star review on your listing: \"Tent\"\n\nRating: ⭐⭐⭐⭐⭐", feedbackMessage("ann", "Tent", 5, nil))
}
