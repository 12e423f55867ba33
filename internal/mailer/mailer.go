package mailer

import (
	"context"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers transactional mail. Callers treat delivery as
// fire-and-forget; a failed send never fails the originating request.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type logSender struct {
	logger *zap.Logger
}

// NewLogSender writes outgoing mail to the log instead of an SMTP
// relay. It stands in wherever a real provider is not configured.
func NewLogSender(logger ...*zap.Logger) Sender {
	l := zap.L().Named("mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer")
	}
	return &logSender{logger: l}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("outgoing mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
