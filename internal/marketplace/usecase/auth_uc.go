package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/metrics"
	"go.uber.org/zap"
)

// AuthUsecase handles registration, login and principal resolution.
type AuthUsecase struct {
	tx        domain.Transactor
	hasher    *PasswordHasher
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewAuthUsecase(tx domain.Transactor, hasher *PasswordHasher, pub domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		tx:        tx,
		hasher:    hasher,
		publisher: orNop(pub),
		metrics:   m,
		logger:    log.Named("AuthUsecase"),
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Location *string
}

// AdminCredential is an admin account to provision. Password may be plain
// text or an existing bcrypt hash.
type AdminCredential struct {
	Username string
	Password string
}

// Register creates a user account. Usernames held by admins are reserved.
func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "AuthUsecase.Register")
	defer span.End()

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}
	location := domain.OptionalText(in.Location)
	if err := checkRegisterLengths(username, email, location); err != nil {
		return nil, err
	}
	uc.logger.Info("Registering user", zap.String("username", username))

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Location:     location,
	}
	err = uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		reserved, err := repos.Admins.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if reserved {
			return domain.ErrUsernameReserved
		}
		taken, err := repos.Users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}
		emailTaken, err := repos.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if emailTaken {
			return domain.ErrEmailTaken
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// lost a race against a concurrent registration
				return fmt.Errorf("%w: username or email already registered", domain.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("Registration rejected", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	uc.metrics.UserRegistered()
	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectUserRegistered, map[string]interface{}{
		"user_id":    user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func checkRegisterLengths(username, email string, location *string) error {
	switch {
	case domain.ExceedsLen(username, domain.MaxUsernameLen):
		return fmt.Errorf("%w: username must be at most %d characters", domain.ErrInvalidInput, domain.MaxUsernameLen)
	case domain.ExceedsLen(email, domain.MaxEmailLen):
		return fmt.Errorf("%w: email must be at most %d characters", domain.ErrInvalidInput, domain.MaxEmailLen)
	case location != nil && domain.ExceedsLen(*location, domain.MaxLocationLen):
		return fmt.Errorf("%w: location must be at most %d characters", domain.ErrInvalidInput, domain.MaxLocationLen)
	}
	return nil
}

// Authenticate checks the admin table first and then the user table.
func (uc *AuthUsecase) Authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	ctx, span := tracer.Start(ctx, "AuthUsecase.Authenticate")
	defer span.End()

	var principal domain.Principal
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		admin, err := repos.Admins.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if admin != nil && uc.hasher.Matches(admin.PasswordHash, password) {
			principal = domain.Principal{Kind: domain.PrincipalAdmin, ID: admin.ID, Username: admin.Username}
			return nil
		}

		user, err := repos.Users.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if user == nil {
			if admin == nil {
				uc.hasher.Burn(password)
			}
			return domain.ErrInvalidCredentials
		}
		if !uc.hasher.Matches(user.PasswordHash, password) {
			return domain.ErrInvalidCredentials
		}
		principal = domain.Principal{Kind: domain.PrincipalUser, ID: user.ID, Username: user.Username}
		return nil
	})
	if err != nil {
		uc.logger.Warn("Login failed", zap.String("username", username), zap.Error(err))
		return domain.Principal{}, err
	}
	uc.logger.Info("Login succeeded", zap.String("kind", string(principal.Kind)), zap.Int64("id", principal.ID))
	return principal, nil
}

// ProvisionAdmins creates configured admin accounts that do not exist yet.
// Existing admins are left untouched.
func (uc *AuthUsecase) ProvisionAdmins(ctx context.Context, accounts []AdminCredential) error {
	for _, acc := range accounts {
		username := strings.TrimSpace(acc.Username)
		if username == "" || acc.Password == "" {
			return fmt.Errorf("%w: admin account needs username and password", domain.ErrInvalidInput)
		}
		hash := acc.Password
		if !IsBcryptHash(hash) {
			var err error
			if hash, err = uc.hasher.Hash(acc.Password); err != nil {
				return err
			}
		}

		created := false
		err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
			found, err := repos.Admins.ExistsByUsername(ctx, username)
			if err != nil || found {
				return err
			}
			if err := repos.Admins.Create(ctx, &domain.Admin{Username: username, PasswordHash: hash}); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return nil
				}
				return err
			}
			created = true
			return nil
		})
		if err != nil {
			uc.logger.Error("Failed to provision admin", zap.String("username", username), zap.Error(err))
			return err
		}
		if created {
			uc.logger.Info("Admin account created", zap.String("username", username))
		} else {
			uc.logger.Info("Admin account already exists", zap.String("username", username))
		}
	}
	return nil
}

// ResolvePrincipal reloads the principal behind a session. A deleted account
// yields ErrUnauthenticated.
func (uc *AuthUsecase) ResolvePrincipal(ctx context.Context, kind domain.PrincipalKind, id int64) (domain.Principal, error) {
	if !kind.Valid() {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	var principal domain.Principal
	err := uc.tx.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		switch kind {
		case domain.PrincipalAdmin:
			admin, err := repos.Admins.GetByID(ctx, id)
			if err != nil {
				return err
			}
			principal = domain.Principal{Kind: kind, ID: admin.ID, Username: admin.Username}
		default:
			user, err := repos.Users.GetByID(ctx, id)
			if err != nil {
				return err
			}
			principal = domain.Principal{Kind: kind, ID: user.ID, Username: user.Username}
		}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return principal, err
}
