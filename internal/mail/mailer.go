// Package mail delivers transactional messages to users. Actual SMTP
// delivery lives behind the Mailer interface; the default implementation
// only records what would have been sent.
package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mailer sends account-related messages.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer logs outgoing messages instead of delivering them. Used until a
// real SMTP sender is wired in.
type LogMailer struct {
	logger *logrus.Logger
	from   string
}

func NewLogMailer(logger *logrus.Logger, from string) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.logger.WithFields(logrus.Fields{
		"from": m.from,
		"to":   email,
	}).Info("password reset requested")
	return nil
}
