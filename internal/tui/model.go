package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/item"
	corekv "github.com/colonyops/quill/internal/core/kv"
	"github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/quill/updatecheck"
	"github.com/colonyops/quill/internal/tui/components"
	tuinotify "github.com/colonyops/quill/internal/tui/notify"
	"github.com/colonyops/quill/internal/tui/views/cards"
)

// uiStateTimeout bounds best-effort KV reads and writes of UI state.
const uiStateTimeout = 2 * time.Second

// Options configures the dashboard.
type Options struct {
	Service     cards.Service        // dashboard API client
	KV          corekv.KV            // persistent UI state (optional)
	NotifyStore notify.Store         // notification history (optional)
	Checker     *updatecheck.Checker // release check (optional)
	Version     string
	Warnings    []string // startup warnings to display as toasts
}

// Model is the main Bubble Tea model for the dashboard.
type Model struct {
	cfg     *config.Config
	handler *KeybindingResolver

	// Category tabs
	feedbacks cards.View
	questions cards.View
	activeTab ViewType
	visited   map[ViewType]bool

	// Persisted UI state (active tab, last viewed item per category)
	uiState *corekv.TypedKV[string]

	width    int
	height   int
	quitting bool

	// Notifications
	notifyBus       *tuinotify.Bus
	buffer          *NotificationBuffer
	toastController *ToastController
	toastView       *ToastView

	// Modal layers above the tab views
	helpDialog        *components.HelpDialog
	notificationModal *NotificationModal

	// Release check
	checker *updatecheck.Checker
	version string

	// Startup warnings to show as toasts after init
	startupWarnings []string
}

// New constructs the dashboard model. The active tab and per-category item
// positions are restored from the KV store when one is available.
func New(cfg *config.Config, opts Options) Model {
	bus := tuinotify.NewBus(opts.NotifyStore)
	buffer := NewNotificationBuffer()
	bus.Subscribe(buffer.Push)

	var uiState *corekv.TypedKV[string]
	if opts.KV != nil {
		uiState = corekv.Scoped[string](opts.KV, "ui")
	}

	feedbacks := cards.New(item.CategoryFeedbacks, opts.Service, bus, cfg.TUI)
	questions := cards.New(item.CategoryQuestions, opts.Service, bus, cfg.TUI)

	activeTab := ViewFeedbacks
	if uiState != nil {
		ctx, cancel := context.WithTimeout(context.Background(), uiStateTimeout)
		defer cancel()
		activeTab = viewTypeFor(uiState.GetOr(ctx, "active_tab", ""))
		if id := uiState.GetOr(ctx, lastItemKey(item.CategoryFeedbacks), ""); id != "" {
			feedbacks.SetLastID(id)
		}
		if id := uiState.GetOr(ctx, lastItemKey(item.CategoryQuestions), ""); id != "" {
			questions.SetLastID(id)
		}
	}

	toastCtrl := NewToastController()

	return Model{
		cfg:             cfg,
		handler:         NewKeybindingResolver(cfg.Keybindings),
		feedbacks:       feedbacks,
		questions:       questions,
		activeTab:       activeTab,
		visited:         map[ViewType]bool{},
		uiState:         uiState,
		notifyBus:       bus,
		buffer:          buffer,
		toastController: toastCtrl,
		toastView:       NewToastView(toastCtrl),
		checker:         opts.Checker,
		version:         opts.Version,
		startupWarnings: opts.Warnings,
	}
}

// Init starts the notification pump, fetches the restored tab's category,
// and kicks off the release check.
func (m Model) Init() tea.Cmd {
	m.visited[m.activeTab] = true
	cmds := []tea.Cmd{
		m.buffer.WaitForSignal(),
		m.initTab(m.activeTab),
	}
	if m.checker != nil {
		cmds = append(cmds, checkForUpdate(m.checker, m.version))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// Window
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Outbound messages from the card views
	case cards.CurrentChangedMsg:
		return m.handleCurrentChanged(msg)

	// Notifications
	case drainNotificationsMsg:
		return m.handleDrainNotifications()
	case toastTickMsg:
		return m.handleToastTick(msg)
	case updateAvailableMsg:
		return m.handleUpdateAvailable(msg)

	// Input
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Everything else (items, drafts, replies, ticks) is category-tagged or
	// id-guarded, so both views receive it and the wrong one drops it.
	return m.forwardToViews(msg)
}

// quit sets the quitting flag and stops the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// active returns a copy of the active tab's view for read-only calls.
func (m Model) active() cards.View {
	if m.activeTab == ViewQuestions {
		return m.questions
	}
	return m.feedbacks
}

// updateActive applies fn to the active tab's view and keeps the result.
func (m Model) updateActive(fn func(cards.View) (cards.View, tea.Cmd)) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.activeTab == ViewQuestions {
		m.questions, cmd = fn(m.questions)
	} else {
		m.feedbacks, cmd = fn(m.feedbacks)
	}
	return m, cmd
}

// initTab returns the initial fetch command for the given tab.
func (m Model) initTab(tab ViewType) tea.Cmd {
	if tab == ViewQuestions {
		return m.questions.Init()
	}
	return m.feedbacks.Init()
}

// forwardToViews routes a message to both category views.
func (m Model) forwardToViews(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.feedbacks, cmd = m.feedbacks.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.questions, cmd = m.questions.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// saveUIState persists a UI state value, best-effort. Failures are logged
// and never surfaced.
func (m Model) saveUIState(key, value string) tea.Cmd {
	if m.uiState == nil {
		return nil
	}
	store := m.uiState
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), uiStateTimeout)
		defer cancel()
		if err := store.Set(ctx, key, value); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("failed to persist ui state")
		}
		return nil
	}
}

func lastItemKey(cat item.Category) string {
	return "last_item." + string(cat)
}
