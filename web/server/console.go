package server

import (
	"fmt"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "notice", "warning", "error"
}

// WebLogger forwards log messages of a render to the browser console while
// still writing them to the server log. Debug output stays server side.
type WebLogger struct {
	log.Logger
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, base log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{Logger: base, renderID: renderID, consoleChan: consoleChan}
}

func (wl *WebLogger) Info(v ...interface{}) {
	wl.Logger.Info(v...)
	wl.send("info", fmt.Sprint(v...))
}

func (wl *WebLogger) Infof(format string, v ...interface{}) {
	wl.Logger.Infof(format, v...)
	wl.send("info", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Notice(v ...interface{}) {
	wl.Logger.Notice(v...)
	wl.send("notice", fmt.Sprint(v...))
}

func (wl *WebLogger) Noticef(format string, v ...interface{}) {
	wl.Logger.Noticef(format, v...)
	wl.send("notice", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Warning(v ...interface{}) {
	wl.Logger.Warning(v...)
	wl.send("warning", fmt.Sprint(v...))
}

func (wl *WebLogger) Warningf(format string, v ...interface{}) {
	wl.Logger.Warningf(format, v...)
	wl.send("warning", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Error(v ...interface{}) {
	wl.Logger.Error(v...)
	wl.send("error", fmt.Sprint(v...))
}

func (wl *WebLogger) Errorf(format string, v ...interface{}) {
	wl.Logger.Errorf(format, v...)
	wl.send("error", fmt.Sprintf(format, v...))
}

// send never blocks; messages are dropped when the console is backed up
func (wl *WebLogger) send(level, message string) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}
