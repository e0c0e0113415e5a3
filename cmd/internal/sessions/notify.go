package sessions

// Notifier is the narrow user-notification surface commands and expiry
// listeners report through (the UI's toast rail, a log line, a chat
// webhook). Injected where commands are invoked; the engine never
// depends on a process-wide singleton.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Info(string) {}
func (NopNotifier) Warn(string) {}
