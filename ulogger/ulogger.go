// Package ulogger is the logging facade used across idcnode. Components take a Logger and
// derive child loggers per service with New.
package ulogger

type Logger interface {
	LogLevel() int
	SetLogLevel(level string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	// New returns a logger for a sub service sharing this logger's output.
	New(service string, options ...Option) Logger
	Duplicate(options ...Option) Logger
}

// New returns a logger for service. The backend is zerolog unless WithLoggerType("gocore") is given.
func New(service string, options ...Option) Logger {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	if opts.loggerType == "gocore" {
		return NewGoCoreLogger(service, options...)
	}

	return NewZeroLogger(service, options...)
}
