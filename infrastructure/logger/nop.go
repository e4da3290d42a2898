package logger

// NoOpLogger discards every entry. Tests use it as the default logger.
type NoOpLogger struct{}

// NewNop returns a logger that writes nothing.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(string, ...Field) {}
func (l *NoOpLogger) Info(string, ...Field)  {}
func (l *NoOpLogger) Warn(string, ...Field)  {}
func (l *NoOpLogger) Error(string, ...Field) {}

// With returns the receiver.
func (l *NoOpLogger) With(...Field) Logger { return l }

// Sync is a no-op.
func (l *NoOpLogger) Sync() error { return nil }
