package core

// Notifier surfaces transient, non-blocking notifications to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

var _ Notifier = (*NopNotifier)(nil)

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
