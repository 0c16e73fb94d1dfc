package mail

import (
	"context"
	"log/slog"
)

// LogProvider records notifications in the log instead of delivering them.
// It needs no credential and is meant for local development.
type LogProvider struct {
	log *slog.Logger
}

// NewLogProvider creates a LogProvider.
func NewLogProvider(log *slog.Logger) *LogProvider {
	return &LogProvider{log: log}
}

// Name implements Provider.
func (lp *LogProvider) Name() string { return "Log" }

// Send implements Provider.
func (lp *LogProvider) Send(ctx context.Context, msg Message) error {
	lp.log.InfoContext(ctx, "Notification not sent, log provider active",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML),
	)

	return nil
}
