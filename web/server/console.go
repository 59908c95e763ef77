package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ConsoleMessage is one render log line as shown in the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger is the core.Logger handed to a raytracer serving a websocket render.
// Lines go to the server log tagged with the render id and, when a console
// channel is attached, to the client.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	dropped     atomic.Int64
}

// NewWebLogger creates a logger for one render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

var _ core.Logger = (*WebLogger)(nil)

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("render %s: %s", wl.renderID, strings.TrimRight(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     consoleLevel(message),
	}:
	default:
		// The client is behind; progress frames matter more than log lines
		wl.dropped.Add(1)
	}
}

// Dropped returns how many lines never reached the client console
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}

func consoleLevel(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.HasPrefix(lower, "error"):
		return "error"
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}
