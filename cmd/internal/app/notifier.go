package app

import (
	"log/slog"

	"warden/cmd/internal/sessions"
)

// logNotifier routes user-facing notifications to the structured log.
// The daemon has no toast rail; a UI host would swap in its own
// sessions.Notifier.
type logNotifier struct {
	log *slog.Logger
}

// NewLogNotifier builds a sessions.Notifier backed by the app logger.
func NewLogNotifier(log *slog.Logger) sessions.Notifier {
	return logNotifier{log: log}
}

func (n logNotifier) Info(msg string) { n.log.Info("notify", "text", msg) }
func (n logNotifier) Warn(msg string) { n.log.Warn("notify", "text", msg) }
