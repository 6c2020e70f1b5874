package core

// Logger logs application events to one or more destinations.
// Implementations may inspect trailing args for known types
// (errors, request users) and report them with extra context.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
