package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	dealID, sessionID, nombre, apellido, dni string,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std, err := repo.CreateStudent(context.Background(), student.Student{
		DealID:    dealID,
		SessionID: sessionID,
		Nombre:    nombre,
		Apellido:  apellido,
		DNI:       dni,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

// LogEntry is a message recorded by Logger.
type LogEntry struct {
	Level   string
	Message string
	Args    []interface{}
}

// Logger records every message instead of printing it.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the recorded messages of the given levels, or all of them.
func (l *Logger) Entries(levels ...string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if len(levels) == 0 || contains(levels, e.Level) {
			entries = append(entries, e)
		}
	}
	return entries
}

// Notifier records notifications.
type Notifier struct {
	mu            sync.Mutex
	notifications []core.Notification
}

var _ core.Notifier = (*Notifier)(nil)

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(notif core.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notif)
}

// Notifications returns the recorded notifications of the given variants, or all of them.
func (n *Notifier) Notifications(variants ...string) []core.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	notifs := make([]core.Notification, 0, len(n.notifications))
	for _, notif := range n.notifications {
		if len(variants) == 0 || contains(variants, notif.Variant) {
			notifs = append(notifs, notif)
		}
	}
	return notifs
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}
