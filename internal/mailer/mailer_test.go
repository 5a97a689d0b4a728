package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func validConfig() SMTPConfig {
	return SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "secret", Sender: "noreply@example.com"}
}

func TestSendNotificationIncompleteConfig(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*SMTPConfig)
	}{
		{"Missing Host", func(c *SMTPConfig) { c.Host = "" }},
		{"Missing Username", func(c *SMTPConfig) { c.Username = "" }},
		{"Missing Password", func(c *SMTPConfig) { c.Password = "" }},
		{"Missing Sender", func(c *SMTPConfig) { c.Sender = "" }},
		{"All Missing", func(c *SMTPConfig) { *c = SMTPConfig{} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			m := New(cfg, logger.NewNopLogger())
			d := &fakeDialer{}
			m.dialer = d

			err := m.SendNotification(context.Background(), "owner@example.com", domain.Notification{Message: "hi"})

			require.ErrorIs(t, err, ErrIncompleteConfig)
			assert.Empty(t, d.sent)
		})
	}
}

func TestSendNotificationBuildsMessage(t *testing.T) {
	m := New(validConfig(), logger.NewNopLogger())
	d := &fakeDialer{}
	m.dialer = d

	err := m.SendNotification(context.Background(), "owner@example.com", domain.Notification{
		ID: 3, Type: domain.NotificationFeedback, Message: "📝 bob left a 4-star review",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, d.sent[0].GetHeader("From"))
	assert.Equal(t, []string{"New review on your listing"}, d.sent[0].GetHeader("Subject"))
}

func TestSendNotificationDialError(t *testing.T) {
	m := New(validConfig(), logger.NewNopLogger())
	m.dialer = &fakeDialer{err: errors.New("connection refused")}

	err := m.SendNotification(context.Background(), "owner@example.com", domain.Notification{Type: domain.NotificationInterest, Message: "x"})
	assert.ErrorContains(t, err, "connection refused")
}
