package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level selects how verbose the shared backend is
type Level int

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is a leveled, module-named logger
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a logger tagged with the given module name.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects every logger to sink. The current level is kept.
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}

	backend := logging.NewLogBackend(sink, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every logger.
func SetLevel(level Level) {
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// ParseVerbosity maps the -v/-vv command line switches to a level
func ParseVerbosity(verbose, veryVerbose bool) Level {
	switch {
	case veryVerbose:
		return Debug
	case verbose:
		return Info
	}
	return Notice
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
