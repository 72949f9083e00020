package core

// Logger is any service that can log messages at the usual levels.
// Trailing args may carry context values; implementations may give some of
// them special treatment (eg. a user.User for person tracking).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
