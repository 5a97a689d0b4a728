package mailer

import (
	"context"
	"errors"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrIncompleteConfig is returned when SMTP settings are missing.
var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// Configured reports whether every setting needed to send mail is present.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != "" && c.Sender != ""
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer e-mails notification copies.
type Mailer struct {
	cfg    SMTPConfig
	dialer dialer
	logger *logger.Logger
}

func New(cfg SMTPConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log.Named("Mailer"),
	}
}

func subjectFor(t domain.NotificationType) string {
	switch t {
	case domain.NotificationInterest:
		return "Someone is interested in your listing"
	case domain.NotificationFeedback:
		return "New review on your listing"
	default:
		return "New message on Helping Hand"
	}
}

func (m *Mailer) message(toEmail string, n domain.Notification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subjectFor(n.Type))
	msg.SetBody("text/plain", n.Message)
	return msg
}

// SendNotification implements domain.NotificationMailer.
func (m *Mailer) SendNotification(_ context.Context, toEmail string, n domain.Notification) error {
	if !m.cfg.Configured() {
		m.logger.Error("SMTP configuration is incomplete. Email not sent.",
			zap.String("host", m.cfg.Host),
			zap.String("username", m.cfg.Username),
			zap.Bool("password_set", m.cfg.Password != ""),
			zap.String("sender", m.cfg.Sender))
		return ErrIncompleteConfig
	}
	if err := m.dialer.DialAndSend(m.message(toEmail, n)); err != nil {
		m.logger.Error("Failed to send email", zap.String("to", toEmail), zap.Error(err))
		return err
	}
	m.logger.Info("Notification e-mailed", zap.String("to", toEmail), zap.Int64("notification_id", n.ID))
	return nil
}
