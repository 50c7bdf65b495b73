package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/example/taskboard/internal/ports/secondary"
)

// mailDialer is the slice of *gomail.Dialer the mailer needs, extracted so
// tests can substitute a fake transport.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers notifications over SMTP. It runs as an extra fan-out
// channel next to the in-app inbox when SMTP is configured.
type Mailer struct {
	dialer mailDialer
	from   string
	users  secondary.UserRepository
	logger *zap.SugaredLogger
}

// NewMailer creates an SMTP notification channel.
func NewMailer(host string, port int, username, password, from string, users secondary.UserRepository, logger *zap.SugaredLogger) *Mailer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		users:  users,
		logger: logger,
	}
}

// Send mails the notification to the user's address. Users without an email
// address are skipped: mail is a best-effort extra channel, not the primary
// delivery path.
func (m *Mailer) Send(ctx context.Context, n secondary.Notification) error {
	user, err := m.users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve mail recipient: %w", err)
	}
	if user.Email == "" {
		m.logger.Debugw("user has no email address, skipping mail", "user", n.UserID)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", n.Title)
	msg.SetBody("text/plain", n.Message)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", user.Email, err)
	}
	return nil
}

// Ensure Mailer implements the interface
var _ secondary.Notifier = (*Mailer)(nil)
