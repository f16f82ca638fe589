/*
Package stdlog adapts the standard library's log.Logger to logger.Logger,
so a session can log to stderr, a file, or anywhere else io.Writer reaches
without pulling in a third-party logging package.
*/
package stdlog

import (
	"log"
	"os"

	"github.com/go-wamp/session/logger"
)

// std wraps a *log.Logger and tags each line with its severity.
type std struct {
	l *log.Logger
}

// New returns a logger.Logger that writes lines to w using the standard
// library's log package. Debug, Warn and Error lines carry a DEBUG, WARN or
// ERROR prefix; Log lines carry none.
func New(w interface {
	Write(p []byte) (n int, err error)
}) logger.Logger {
	return &std{l: log.New(w, "", log.LstdFlags)}
}

// Default returns a logger.Logger that writes to os.Stderr.
func Default() logger.Logger {
	return New(os.Stderr)
}

func (s *std) Debug(v ...interface{})                 { s.l.Print(append([]interface{}{"DEBUG "}, v...)...) }
func (s *std) Debugf(format string, v ...interface{}) { s.l.Printf("DEBUG "+format, v...) }
func (s *std) Log(v ...interface{})                   { s.l.Print(v...) }
func (s *std) Logf(format string, v ...interface{})   { s.l.Printf(format, v...) }
func (s *std) Warn(v ...interface{})                  { s.l.Print(append([]interface{}{"WARN "}, v...)...) }
func (s *std) Warnf(format string, v ...interface{})  { s.l.Printf("WARN "+format, v...) }
func (s *std) Error(v ...interface{})                 { s.l.Print(append([]interface{}{"ERROR "}, v...)...) }
func (s *std) Errorf(format string, v ...interface{}) { s.l.Printf("ERROR "+format, v...) }
