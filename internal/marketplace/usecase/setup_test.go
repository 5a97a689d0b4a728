package usecase

import (
	"context"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/repository/gormdb"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendNotification(ctx context.Context, toEmail string, n domain.Notification) error {
	args := m.Called(ctx, toEmail, n)
	return args.Error(0)
}

type testEnv struct {
	db            *gorm.DB
	publisher     *mockPublisher
	mailer        *mockMailer
	auth          *AuthUsecase
	listings      *ListingUsecase
	interests     *InterestUsecase
	feedback      *FeedbackUsecase
	notifications *NotificationUsecase
	admin         *AdminUsecase
	users         *UserUsecase
}

type envOptions struct {
	caseInsensitive bool
	mailerErr       error
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	log := logger.NewNopLogger()
	db, err := gormdb.Open(gormdb.DriverSQLite, "file::memory:?_foreign_keys=on", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mailer := &mockMailer{}
	mailer.On("SendNotification", mock.Anything, mock.Anything, mock.Anything).Return(opts.mailerErr)

	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	store := gormdb.NewStore(db)
	notifications := NewNotificationUsecase(store, pub, mailer, nil, log)
	return &testEnv{
		db:            db,
		publisher:     pub,
		mailer:        mailer,
		auth:          NewAuthUsecase(store, hasher, pub, nil, log),
		listings:      NewListingUsecase(store, pub, nil, log, opts.caseInsensitive),
		interests:     NewInterestUsecase(store, notifications, pub, nil, log),
		feedback:      NewFeedbackUsecase(store, notifications, pub, nil, log),
		notifications: notifications,
		admin:         NewAdminUsecase(store, pub, nil, log),
		users:         NewUserUsecase(store, notifications, log),
	}
}

func (e *testEnv) register(t *testing.T, username string) domain.Principal {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: username + "-pw",
	})
	require.NoError(t, err)
	return domain.Principal{Kind: domain.PrincipalUser, ID: u.ID, Username: u.Username}
}

func (e *testEnv) adminPrincipal(t *testing.T) domain.Principal {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.auth.ProvisionAdmins(ctx, []AdminCredential{{Username: "admin", Password: "admin"}}))
	p, err := e.auth.Authenticate(ctx, "admin", "admin")
	require.NoError(t, err)
	return p
}

func (e *testEnv) createListing(t *testing.T, owner domain.Principal, title string) *domain.Listing {
	t.Helper()
	l, err := e.listings.Create(context.Background(), owner, domain.ListingInput{
		Title:       title,
		Category:    "skill",
		ListingType: "offer",
		Description: "about " + title,
	})
	require.NoError(t, err)
	return l
}

func (e *testEnv) count(t *testing.T, table, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Where(query, args...).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
