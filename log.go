package framecap

import (
	"log"
)

// LogFunc is the common logging func type.
type LogFunc func(string, ...interface{})

// WithLogf is a session option to specify a func to receive general logging
// (page loading, page prepared, elapsed capture time, retry notices).
func WithLogf(f LogFunc) Option {
	return func(s *Session) { s.logf = f }
}

// WithDebugf is a session option to specify a func to receive debug logging
// (every visited marker).
func WithDebugf(f LogFunc) Option {
	return func(s *Session) { s.debugf = f }
}

// WithErrorf is a session option to specify a func to receive error logging.
func WithErrorf(f LogFunc) Option {
	return func(s *Session) { s.errorf = f }
}

// WithLog is a session option that sets the logging, debugging, and error
// funcs to f.
func WithLog(f LogFunc) Option {
	return func(s *Session) {
		s.logf = f
		s.debugf = f
		s.errorf = f
	}
}

// Quiet discards all session logging.
func Quiet(s *Session) {
	WithLog(func(string, ...interface{}) {})(s)
}

func (s *Session) initLogging() {
	if s.logf == nil {
		s.logf = log.Printf
	}
	if s.debugf == nil {
		s.debugf = func(string, ...interface{}) {}
	}
	if s.errorf == nil {
		logf := s.logf
		s.errorf = func(format string, v ...interface{}) {
			logf("ERROR: "+format, v...)
		}
	}
}
