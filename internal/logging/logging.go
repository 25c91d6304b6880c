// Package logging adapts logrus to the printf-style logger used by the controller.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry. Fields attached with WithField are kept on
// every subsequent line.
type Logger struct {
	entry *logrus.Entry
}

// New builds a text logger writing to out at the named level. Unknown levels
// fall back to info.
func New(out io.Writer, level string) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return FromLogrus(l)
}

// FromLogrus wraps an existing logrus logger.
func FromLogrus(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }
