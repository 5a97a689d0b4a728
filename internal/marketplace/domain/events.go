package domain

import "context"

// Event subjects published after a successful commit.
const (
	SubjectUserRegistered      = "user.registered"
	SubjectUserDeleted         = "user.deleted"
	SubjectListingCreated      = "listing.created"
	SubjectListingUpdated      = "listing.updated"
	SubjectListingDeleted      = "listing.deleted"
	SubjectInterestCreated     = "interest.created"
	SubjectInterestDeleted     = "interest.deleted"
	SubjectFeedbackCreated     = "feedback.created"
	SubjectFeedbackDeleted     = "feedback.deleted"
	SubjectNotificationCreated = "notification.created"
)

// EventPublisher publishes domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// NotificationMailer sends an e-mail copy of a notification.
type NotificationMailer interface {
	SendNotification(ctx context.Context, toEmail string, notification Notification) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// NopMailer sends nothing.
type NopMailer struct{}

func (NopMailer) SendNotification(context.Context, string, Notification) error { return nil }
