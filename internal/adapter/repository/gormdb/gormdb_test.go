package gormdb

import (
	"context"
	"errors"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := Open(DriverSQLite, "file::memory:?_foreign_keys=on", logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewStore(db), db
}

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, repos domain.Repositories, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func seedListing(t *testing.T, repos domain.Repositories, owner int64, title, description string) *domain.Listing {
	t.Helper()
	l := &domain.Listing{Title: title, Category: "skill", ListingType: "offer", Description: description, OwnerUserID: owner}
	require.NoError(t, repos.Listings.Create(context.Background(), l))
	return l
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		seedUser(t, repos, "alice")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&userModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUserUniqueConstraintsTranslate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		seedUser(t, repos, "alice")
		dup := &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}
		return repos.Users.Create(ctx, dup)
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		_, err := repos.Users.GetByID(ctx, 404)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedbackUniquePerReviewerAndListing(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		reviewer := seedUser(t, repos, "reviewer")
		l := seedListing(t, repos, owner.ID, "Bike repair", "fix bikes")

		require.NoError(t, repos.Feedback.Create(ctx, &domain.Feedback{Rating: 4, ReviewerUserID: reviewer.ID, ListingID: l.ID}))
		return repos.Feedback.Create(ctx, &domain.Feedback{Rating: 5, ReviewerUserID: reviewer.ID, ListingID: l.ID})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestFeedbackRatingCheckConstraint(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		reviewer := seedUser(t, repos, "reviewer")
		l := seedListing(t, repos, owner.ID, "Bike repair", "fix bikes")
		return repos.Feedback.Create(ctx, &domain.Feedback{Rating: 9, ReviewerUserID: reviewer.ID, ListingID: l.ID})
	})
	assert.ErrorIs(t, err, domain.ErrRepository)
}

func TestRatingSummaries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		first := seedListing(t, repos, owner.ID, "Guitar", "lessons")
		second := seedListing(t, repos, owner.ID, "Piano", "lessons")

		empty, err := repos.Feedback.SummaryForListing(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, empty.Average)
		assert.Zero(t, empty.Count)

		for i, rating := range []int{5, 4, 3} {
			r := seedUser(t, repos, "reviewer"+string(rune('a'+i)))
			require.NoError(t, repos.Feedback.Create(ctx, &domain.Feedback{Rating: rating, ReviewerUserID: r.ID, ListingID: first.ID}))
		}
		r := seedUser(t, repos, "late")
		require.NoError(t, repos.Feedback.Create(ctx, &domain.Feedback{Rating: 2, ReviewerUserID: r.ID, ListingID: second.ID}))

		listing, err := repos.Feedback.SummaryForListing(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, listing.Average)
		assert.Equal(t, 4.0, *listing.Average)
		assert.Equal(t, int64(3), listing.Count)

		user, err := repos.Feedback.SummaryForOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, user.Average)
		assert.Equal(t, 3.5, *user.Average)
		assert.Equal(t, int64(4), user.Count)
		return nil
	}))
}

func TestListingSearch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		seedListing(t, repos, owner.ID, "Guitar lessons", "Learn chords")
		seedListing(t, repos, owner.ID, "Bike", "Mountain bike for guitar players")
		other := &domain.Listing{Title: "Ladder", Category: "item", ListingType: "request", Description: "need a ladder", OwnerUserID: owner.ID}
		require.NoError(t, repos.Listings.Create(ctx, other))

		sensitive, err := repos.Listings.Search(ctx, domain.ListingFilter{Search: "Guitar"})
		require.NoError(t, err)
		require.Len(t, sensitive, 1)
		assert.Equal(t, "Guitar lessons", sensitive[0].Title)
		assert.Equal(t, "owner", sensitive[0].OwnerUsername)

		insensitive, err := repos.Listings.Search(ctx, domain.ListingFilter{Search: "guitar", CaseInsensitive: true})
		require.NoError(t, err)
		assert.Len(t, insensitive, 2)

		byCategory, err := repos.Listings.Search(ctx, domain.ListingFilter{Category: "item", ListingType: "request"})
		require.NoError(t, err)
		require.Len(t, byCategory, 1)
		assert.Equal(t, other.ID, byCategory[0].ID)

		all, err := repos.Listings.Search(ctx, domain.ListingFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, other.ID, all[0].ID, "newest first")

		recent, err := repos.Listings.Recent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, recent, 2)
		return nil
	}))
}

func TestListingUpdateClearsOptionalFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		l := &domain.Listing{Title: "Tent", Category: "item", ListingType: "offer", Description: "2p tent",
			Location: strPtr("Astana"), Tags: strPtr("camping"), OwnerUserID: owner.ID}
		require.NoError(t, repos.Listings.Create(ctx, l))

		l.Title = "Big tent"
		l.Location = nil
		require.NoError(t, repos.Listings.Update(ctx, l))

		got, err := repos.Listings.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "Big tent", got.Title)
		assert.Nil(t, got.Location)
		require.NotNil(t, got.Tags)
		assert.Equal(t, "camping", *got.Tags)

		missing := &domain.Listing{ID: 999, Title: "x"}
		assert.ErrorIs(t, repos.Listings.Update(ctx, missing), domain.ErrNotFound)
		return nil
	}))
}

func TestDeleteByListingOwner(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		owner := seedUser(t, repos, "owner")
		visitor := seedUser(t, repos, "visitor")
		mine := seedListing(t, repos, owner.ID, "Mine", "owner's listing")
		theirs := seedListing(t, repos, visitor.ID, "Theirs", "visitor's listing")

		require.NoError(t, repos.Interests.Create(ctx, &domain.Interest{InterestedUserID: visitor.ID, ListingID: mine.ID}))
		require.NoError(t, repos.Interests.Create(ctx, &domain.Interest{InterestedUserID: owner.ID, ListingID: theirs.ID}))
		require.NoError(t, repos.Feedback.Create(ctx, &domain.Feedback{Rating: 5, ReviewerUserID: visitor.ID, ListingID: mine.ID}))
		require.NoError(t, repos.Notifications.Create(ctx, &domain.Notification{
			Message: "hi", Type: domain.NotificationInterest, RecipientUserID: owner.ID, SenderUserID: &visitor.ID, RelatedListingID: &mine.ID,
		}))

		require.NoError(t, repos.Interests.DeleteByListingOwner(ctx, owner.ID))
		require.NoError(t, repos.Feedback.DeleteByListingOwner(ctx, owner.ID))
		require.NoError(t, repos.Notifications.DeleteByListingOwner(ctx, owner.ID))
		return nil
	}))

	var interests, feedback, notifications int64
	require.NoError(t, db.Model(&interestModel{}).Count(&interests).Error)
	require.NoError(t, db.Model(&feedbackModel{}).Count(&feedback).Error)
	require.NoError(t, db.Model(&notificationModel{}).Count(&notifications).Error)
	assert.Equal(t, int64(1), interests, "interest on the other user's listing survives")
	assert.Zero(t, feedback)
	assert.Zero(t, notifications)
}

func TestNotificationReadState(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		alice := seedUser(t, repos, "alice")
		bob := seedUser(t, repos, "bob")
		for _, recipient := range []int64{alice.ID, alice.ID, bob.ID} {
			require.NoError(t, repos.Notifications.Create(ctx, &domain.Notification{
				Message: "ping", Type: domain.NotificationMessage, RecipientUserID: recipient,
			}))
		}

		unread, err := repos.Notifications.CountUnread(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unread)

		n, err := repos.Notifications.MarkAllRead(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		unread, err = repos.Notifications.CountUnread(ctx, alice.ID)
		require.NoError(t, err)
		assert.Zero(t, unread)
		unread, err = repos.Notifications.CountUnread(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)

		cleared, err := repos.Notifications.DeleteByRecipient(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), cleared)
		assert.ErrorIs(t, repos.Notifications.Delete(ctx, 12345), domain.ErrNotFound)
		return nil
	}))
}

func TestContainsExpr(t *testing.T) {
	assert.Equal(t, "strpos(title, ?) > 0", containsExpr(DriverPostgres, "title", false))
	assert.Equal(t, "instr(LOWER(title), LOWER(?)) > 0", containsExpr(DriverSQLite, "title", true))
}
