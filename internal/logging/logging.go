// Package logging builds the process-wide structured logger.
//
// Every line is a single JSON object with "ts", "level" and "msg" keys,
// timestamps rendered in the configured location.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing JSON lines to w.
func New(w io.Writer, loc *time.Location, level string) *logrus.Logger {
	if w == nil {
		w = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.AddHook(locationHook{loc: loc})
	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type locationHook struct {
	loc *time.Location
}

func (h locationHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h locationHook) Fire(e *logrus.Entry) error {
	e.Time = e.Time.In(h.loc)
	return nil
}
