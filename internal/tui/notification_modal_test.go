package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/styles"
	tuinotify "github.com/colonyops/quill/internal/tui/notify"
)

// stubStore is a minimal notify.Store for testing that can optionally return errors.
type stubStore struct {
	items    []notify.Notification
	nextID   int64
	listErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)
	return n.ID, nil
}

func (s *stubStore) List(_ context.Context) ([]notify.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]notify.Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.items = nil
	return nil
}

func (s *stubStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func TestNotificationModal_empty_history(t *testing.T) {
	bus := tuinotify.NewBus(&stubStore{})
	m := NewNotificationModal(bus, 100, 40)

	content := m.viewport.View()
	assert.Contains(t, content, "No notifications")
}

func TestNotificationModal_populated_history(t *testing.T) {
	bus := tuinotify.NewBus(&stubStore{})

	bus.Infof("first message")
	bus.Errorf("second message")
	bus.Warnf("third message")

	m := NewNotificationModal(bus, 100, 40)
	content := m.viewport.View()

	assert.Contains(t, content, "first message")
	assert.Contains(t, content, "second message")
	assert.Contains(t, content, "third message")
}

func TestNotificationModal_history_error(t *testing.T) {
	store := &stubStore{
		listErr: errors.New("db connection failed"),
	}
	bus := tuinotify.NewBus(store)

	m := NewNotificationModal(bus, 100, 40)
	content := m.viewport.View()

	assert.Contains(t, content, "failed to load notifications")
	assert.Contains(t, content, "db connection failed")
}

func TestNotificationModal_Clear_removes_notifications(t *testing.T) {
	bus := tuinotify.NewBus(&stubStore{})

	bus.Infof("will be cleared")

	m := NewNotificationModal(bus, 100, 40)
	require.Contains(t, m.viewport.View(), "will be cleared")

	err := m.Clear()
	require.NoError(t, err)

	assert.Contains(t, m.viewport.View(), "No notifications")
}

func TestNotificationModal_Clear_returns_store_error(t *testing.T) {
	store := &stubStore{
		clearErr: errors.New("clear failed"),
	}
	bus := tuinotify.NewBus(store)

	m := NewNotificationModal(bus, 100, 40)
	err := m.Clear()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear failed")
}

func TestNotificationModal_Overlay_chrome(t *testing.T) {
	bus := tuinotify.NewBus(&stubStore{})
	m := NewNotificationModal(bus, 100, 40)

	out := m.Overlay("background", 100, 40)

	assert.Contains(t, out, "Notifications")
	assert.Contains(t, out, "[j/k] scroll")
}

func TestNotificationModal_formatNotification_levels(t *testing.T) {
	now := time.Date(2026, 1, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelInfo, styles.IconNotifyInfo},
		{notify.LevelWarning, styles.IconNotifyWarn},
		{notify.LevelError, styles.IconNotifyError},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			n := notify.Notification{
				Level:     tt.level,
				Message:   "test",
				CreatedAt: now,
			}
			out := formatNotification(n)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "14:30:45")
			assert.Contains(t, out, "test")
		})
	}
}

func TestCalcNotificationModalWidth(t *testing.T) {
	tests := []struct {
		name      string
		termWidth int
		want      int
	}{
		{"wide terminal uses percentage", 200, 130},
		{"narrow terminal clamps to available", 50, 46},
		{"medium terminal hits minimum", 80, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calcNotificationModalWidth(tt.termWidth))
		})
	}
}
