package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/quill/internal/core/notify"
)

// drainNotificationsMsg wakes the update loop to move buffered notifications
// into the toast stack.
type drainNotificationsMsg struct{}

// NotificationBuffer decouples bus publishes from the update loop. Publishes
// can come from async tea.Cmd goroutines; the buffer coalesces them and emits
// a single drain signal the model consumes via WaitForSignal.
type NotificationBuffer struct {
	mu            sync.Mutex
	notifications []notify.Notification
	signal        chan struct{}
}

// NewNotificationBuffer constructs an empty buffer.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		signal: make(chan struct{}, 1),
	}
}

// Push appends a notification and emits a non-blocking drain signal.
func (b *NotificationBuffer) Push(n notify.Notification) {
	b.mu.Lock()
	b.notifications = append(b.notifications, n)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered notifications and clears the buffer.
func (b *NotificationBuffer) Drain() []notify.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.notifications) == 0 {
		return nil
	}

	out := make([]notify.Notification, len(b.notifications))
	copy(out, b.notifications)
	b.notifications = b.notifications[:0]
	return out
}

// WaitForSignal blocks until there are notifications ready to drain.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainNotificationsMsg{}
	}
}
