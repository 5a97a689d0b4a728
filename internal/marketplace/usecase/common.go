package usecase

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("helping-hand/usecase")

const (
	RecentListingsLimit      = 6
	AdminRecentInterestLimit = 50
	AdminRecentNotifyLimit   = 50
)

func requireUser(actor domain.Principal) error {
	if !actor.IsUser() {
		return domain.ErrUserOnly
	}
	return nil
}

func requireAdmin(actor domain.Principal) error {
	if !actor.IsAdmin() {
		return domain.ErrAdminOnly
	}
	return nil
}

// publishEvent sends a domain event after commit. A failure is logged and
// never reported to the caller.
func publishEvent(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, data map[string]interface{}) {
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func orNop(pub domain.EventPublisher) domain.EventPublisher {
	if pub == nil {
		return domain.NopPublisher{}
	}
	return pub
}
