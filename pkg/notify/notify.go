// Package notify delivers confirmation codes out of band.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers one message.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage builds the message carrying a signup code.
func ConfirmationMessage(email, username, code string) Message {
	return Message{
		To:      email,
		Subject: "YaMDb confirmation code",
		Body:    fmt.Sprintf("Hello %s, your confirmation code is %s", username, code),
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	from string
	log  *zap.Logger
}

func NewLogMailer(from string, log *zap.Logger) *LogMailer {
	return &LogMailer{
		from: from,
		log:  log.With(zap.String("component", "mailer")),
	}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("Mail sent",
		zap.String("from", m.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
