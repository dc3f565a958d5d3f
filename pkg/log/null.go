package log

// nullLogger discards everything. Useful for tests and for embedders
// that don't want log output.
type nullLogger struct{}

// NewNullLogger returns a Logger that discards all messages.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}
