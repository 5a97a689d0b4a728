package usecase

import (
	"context"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/repository/gormdb"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// staleReadTransactor runs on the real store but makes every existence check
// report false, as if a concurrent transaction inserted the row after the
// check. Only the unique indexes can then reject the write.
type staleReadTransactor struct {
	inner domain.Transactor
}

func (s staleReadTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return s.inner.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		repos.Users = staleUsers{repos.Users}
		repos.Interests = staleInterests{repos.Interests}
		repos.Feedback = staleFeedback{repos.Feedback}
		return fn(ctx, repos)
	})
}

type staleUsers struct{ domain.UserRepository }

func (staleUsers) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (staleUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

type staleInterests struct{ domain.InterestRepository }

func (staleInterests) Exists(context.Context, int64, int64) (bool, error) { return false, nil }

type staleFeedback struct{ domain.FeedbackRepository }

func (staleFeedback) ExistsForReviewer(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func TestUniqueIndexesResolveLostRaces(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	log := logger.NewNopLogger()
	owner := e.register(t, "owner")
	visitor := e.register(t, "visitor")
	l := e.createListing(t, owner, "Ladder")

	_, err := e.interests.ShowInterest(ctx, visitor, l.ID, nil)
	require.NoError(t, err)
	_, err = e.feedback.Add(ctx, visitor, l.ID, 5, nil)
	require.NoError(t, err)

	stale := staleReadTransactor{inner: gormdb.NewStore(e.db)}
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	auth := NewAuthUsecase(stale, hasher, e.publisher, nil, log)
	interests := NewInterestUsecase(stale, e.notifications, e.publisher, nil, log)
	feedback := NewFeedbackUsecase(stale, e.notifications, e.publisher, nil, log)

	t.Run("register", func(t *testing.T) {
		_, err := auth.Register(ctx, RegisterInput{Username: "visitor", Email: "second@example.com", Password: "pw"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, int64(1), e.count(t, "users", "username = ?", "visitor"))
	})

	t.Run("interest", func(t *testing.T) {
		_, err := interests.ShowInterest(ctx, visitor, l.ID, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateInterest)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.Equal(t, int64(1), e.count(t, "interests", "listing_id = ?", l.ID))
	})

	t.Run("feedback", func(t *testing.T) {
		_, err := feedback.Add(ctx, visitor, l.ID, 4, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateFeedback)
		assert.Equal(t, int64(1), e.count(t, "feedbacks", "listing_id = ?", l.ID))
	})

	// rejected writes left no extra notifications behind
	assert.Equal(t, int64(2), e.count(t, "notifications", "recipient_user_id = ?", owner.ID))
}
