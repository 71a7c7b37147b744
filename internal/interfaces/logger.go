package interfaces

// Logger defines a generic logging interface.
// keyvals are alternating key/value pairs, e.g. "func", name, "error", err.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	// SetLevel accepts zerolog level names in any case; unknown names mean info.
	SetLevel(level string)
	// WithContext returns a logger that adds ctx to every entry.
	WithContext(ctx map[string]interface{}) Logger
}
