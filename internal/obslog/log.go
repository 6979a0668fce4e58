// Package obslog is a small leveled-logging wrapper around logrus, used by
// the boundary layers (cmd/delegatescan, internal/httpapi).
// The core delegatescan package never imports it: analysis stays
// side-effect free.
package obslog

import (
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level is a logging severity.
type Level uint32

const (
	Panic Level = iota
	Fatal
	Error
	Warn
	Info
	Debug
)

// Fields aliases logrus's field map so callers don't import logrus
// directly.
type Fields = logrus.Fields

// Logger is the interface every boundary component logs through.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})

	With(key string, value interface{}) Logger
	WithFields(Fields) Logger

	SetLevel(Level)
	SetOutput(io.Writer)
	SetJSONFormatter()
	IsLevelEnabled(level Level) bool

	source() *logrus.Entry
}

type logger struct {
	entry *logrus.Entry
}

var (
	baseLogger Logger
	once       sync.Once
)

// Init ensures the base logger exists; it is idempotent and safe to call
// more than once.
func Init() {
	once.Do(func() {
		baseLogger = NewLogger()
		baseLogger.SetLevel(Warn)
	})
}

func init() {
	Init()
}

// Base returns the package's default Logger.
func Base() Logger {
	return baseLogger
}

// NewLogger returns a fresh Logger writing to stderr in text format.
func NewLogger() Logger {
	l := logrus.New()
	out := logger{entry: logrus.NewEntry(l)}
	if tf, ok := out.entry.Logger.Formatter.(*logrus.TextFormatter); ok {
		tf.TimestampFormat = "2006-01-02T15:04:05.000000 -0700"
	}
	return out
}

func (l logger) With(key string, value interface{}) Logger {
	return logger{entry: l.entry.WithField(key, value)}
}

func (l logger) WithFields(fields Fields) Logger {
	return logger{entry: l.entry.WithFields(fields)}
}

func (l logger) Debug(args ...interface{})                 { l.source().Debug(args...) }
func (l logger) Debugf(format string, args ...interface{}) { l.source().Debugf(format, args...) }
func (l logger) Info(args ...interface{})                  { l.source().Info(args...) }
func (l logger) Infof(format string, args ...interface{})  { l.source().Infof(format, args...) }
func (l logger) Warn(args ...interface{})                  { l.source().Warn(args...) }
func (l logger) Warnf(format string, args ...interface{})  { l.source().Warnf(format, args...) }
func (l logger) Error(args ...interface{})                 { l.source().Error(args...) }
func (l logger) Errorf(format string, args ...interface{}) { l.source().Errorf(format, args...) }
func (l logger) Fatal(args ...interface{})                 { l.source().Fatal(args...) }
func (l logger) Fatalf(format string, args ...interface{}) { l.source().Fatalf(format, args...) }

func (l logger) SetLevel(lvl Level) { l.entry.Logger.Level = logrus.Level(lvl) }

func (l logger) IsLevelEnabled(level Level) bool {
	return l.entry.Logger.Level >= logrus.Level(level)
}

func (l logger) SetOutput(w io.Writer) { l.entry.Logger.Out = w }

func (l logger) SetJSONFormatter() {
	l.entry.Logger.Formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000000Z07:00"}
}

// source attaches the caller's file and line, matching the corpus's
// logging wrapper convention.
func (l logger) source() *logrus.Entry {
	event := l.entry
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return event
	}
	if slash := strings.LastIndex(file, "/"); slash >= 0 {
		file = file[slash+1:]
	}
	return event.WithFields(logrus.Fields{"file": file, "line": line})
}
