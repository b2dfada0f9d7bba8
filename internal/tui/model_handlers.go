package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/tui/components"
	"github.com/colonyops/quill/internal/tui/views/cards"
)

// --- Window ---

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := max(msg.Height-tabChromeHeight, 1)
	m.feedbacks.SetSize(msg.Width, contentHeight)
	m.questions.SetSize(msg.Width, contentHeight)

	// Publish startup warnings on the first WindowSizeMsg
	if len(m.startupWarnings) > 0 {
		for _, w := range m.startupWarnings {
			m.notifyBus.Warnf("%s", w)
		}
		m.startupWarnings = nil
	}
	return m, nil
}

// --- Card views ---

func (m Model) handleCurrentChanged(msg cards.CurrentChangedMsg) (tea.Model, tea.Cmd) {
	return m, m.saveUIState(lastItemKey(msg.Cat), msg.ID)
}

// --- Notifications ---

func (m Model) handleDrainNotifications() (tea.Model, tea.Cmd) {
	for _, n := range m.buffer.Drain() {
		m.toastController.Push(n)
	}

	cmds := []tea.Cmd{m.buffer.WaitForSignal()}
	if cmd := m.ensureToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleToastTick(msg toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Tick(time.Time(msg))
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	return m, nil
}

// ensureToastTick returns a tick command when there are active toasts.
// Multiple concurrent tick chains are harmless: toast deadlines are
// absolute, so extra ticks no-op and chains stop once everything expires.
func (m Model) ensureToastTick() tea.Cmd {
	if m.toastController.HasToasts() {
		return scheduleToastTick()
	}
	return nil
}

func (m Model) handleUpdateAvailable(msg updateAvailableMsg) (tea.Model, tea.Cmd) {
	m.notifyBus.Infof("quill %s is available (installed %s)", msg.result.Latest, msg.result.Current)
	return m, nil
}

// --- Input ---

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == keyCtrlC {
		return m.quit()
	}

	// Shell modals take priority over the views.
	if m.notificationModal != nil {
		return m.handleNotificationModalKey(keyStr)
	}
	if m.helpDialog != nil {
		return m.handleHelpDialogKey(keyStr)
	}

	// A view with an open modal or a focused editor consumes raw keys.
	if av := m.active(); av.ModalActive() || av.HasEditorFocus() {
		return m.delegateKey(msg)
	}

	action, ok := m.handler.Resolve(keyStr)
	if !ok {
		return m, nil
	}
	return m.dispatchAction(action)
}

func (m Model) dispatchAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case config.ActionQuit:
		return m.quit()
	case config.ActionHelp:
		return m.showHelpDialog()
	case config.ActionNotifications:
		return m.showNotificationModal()
	case config.ActionTabFeedbacks:
		return m.switchTab(ViewFeedbacks)
	case config.ActionTabQuestions:
		return m.switchTab(ViewQuestions)
	case config.ActionTabCycle:
		return m.switchTab(m.activeTab.next())
	}

	// Everything else belongs to the active category view.
	return m.updateActive(func(v cards.View) (cards.View, tea.Cmd) {
		return v.HandleAction(action)
	})
}

func (m Model) delegateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m.updateActive(func(v cards.View) (cards.View, tea.Cmd) {
		return v.Update(msg)
	})
}

// --- Tabs ---

func (m Model) switchTab(tab ViewType) (tea.Model, tea.Cmd) {
	if tab == m.activeTab {
		return m, nil
	}
	m.activeTab = tab

	cmds := []tea.Cmd{m.saveUIState("active_tab", tab.String())}
	if !m.visited[tab] {
		m.visited[tab] = true
		cmds = append(cmds, m.initTab(tab))
	}
	return m, tea.Batch(cmds...)
}

// --- Shell modals ---

func (m Model) showHelpDialog() (tea.Model, tea.Cmd) {
	m.helpDialog = components.NewHelpDialog("Keyboard Shortcuts", m.handler.HelpSections())
	return m, nil
}

func (m Model) handleHelpDialogKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEsc, "?", "q":
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) showNotificationModal() (tea.Model, tea.Cmd) {
	m.notificationModal = NewNotificationModal(m.notifyBus, m.width, m.height)
	return m, nil
}

func (m Model) handleNotificationModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEsc, "q", "N":
		m.notificationModal = nil
	case "j", "down":
		m.notificationModal.ScrollDown()
	case "k", "up":
		m.notificationModal.ScrollUp()
	case "D":
		if err := m.notificationModal.Clear(); err != nil {
			m.notifyBus.Errorf("failed to clear notifications: %v", err)
			return m, nil
		}
		m.notifyBus.Infof("notifications cleared")
	}
	return m, nil
}
