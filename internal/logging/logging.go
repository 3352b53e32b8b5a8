// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// New returns a logger writing prefixed text to stderr at the named level.
func New(level string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &logrus.Logger{
		Out:   out,
		Level: lvl,
		Hooks: make(logrus.LevelHooks),
		Formatter: &prefixed.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			ForceFormatting: true,
		},
		ExitFunc: os.Exit,
	}, nil
}

// Discard returns a logger that drops everything. Used by tests and library callers.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
