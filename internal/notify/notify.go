// Package notify is the user-facing notification sink. The wizard shell
// reports every validation, network, and server failure through one of these
// so the hosting UI has a single channel to render toasts from.
package notify

import (
	"sync"
	"time"

	"philfund-wizard/internal/common/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is one fire-and-forget toast.
type Notification struct {
	Level       Level
	Title       string
	Description string
	Duration    time.Duration
}

// Notifier is the sink interface consumed by the wizard shell.
type Notifier interface {
	Notify(n Notification)
}

// logNotifier renders notifications into the structured log. The production
// front end swaps this for its toast system.
type logNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(note Notification) {
	fields := map[string]interface{}{
		"title":       note.Title,
		"description": note.Description,
		"duration":    note.Duration.String(),
	}
	switch note.Level {
	case LevelError:
		n.log.Error("notification", fields)
	case LevelWarning:
		n.log.Warn("notification", fields)
	default:
		n.log.Info("notification", fields)
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// All returns a copy of every notification seen so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// Last returns the most recent notification, or false when none were sent.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Reset clears recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}
