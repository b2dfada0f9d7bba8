package tui

import (
	"time"

	"github.com/colonyops/quill/internal/core/notify"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 5
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 50
)

type toast struct {
	notification notify.Notification
	deadline     time.Time
}

// ToastController manages the lifecycle of active toast notifications.
// Each toast carries an absolute expiry deadline, so Tick is idempotent
// and overlapping tick chains cannot shorten a toast's lifetime.
type ToastController struct {
	toasts []toast
	now    func() time.Time // injectable for tests
}

func NewToastController() *ToastController {
	return &ToastController{now: time.Now}
}

// Push adds a notification to the toast stack. If the stack exceeds
// defaultMaxToasts, the oldest toast is evicted.
func (c *ToastController) Push(n notify.Notification) {
	c.toasts = append(c.toasts, toast{
		notification: n,
		deadline:     c.now().Add(defaultToastTTL),
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick removes all toasts whose deadline has passed.
func (c *ToastController) Tick(now time.Time) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if t.deadline.After(now) {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest (bottom-most) toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}
