package notify

import (
	"context"
	"log/slog"

	"freight/internal/core/ports"
)

// LogSender writes notifications to the log. It stands in for the rail when
// no broker is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "LogSender")}
}

func (s *LogSender) Notify(ctx context.Context, n ports.Notification) error {
	attrs := []any{"event", n.Event, "userID", n.UserID.String()}
	for k, v := range n.Payload {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}
