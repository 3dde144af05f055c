package stamper

import "log/slog"

// Notifier surfaces user-visible notices.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// LogNotifier writes notices to a logger at info level.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs message as a notice.
func (n LogNotifier) Notify(message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notice", "message", message)
}
