package cards

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/quill/internal/ai"
	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/dashboard"
	"github.com/colonyops/quill/internal/tui/notify"
	"github.com/colonyops/quill/pkg/executil"
)

const (
	fetchTimeout    = 15 * time.Second
	generateTimeout = 2 * time.Minute
	replyTimeout    = 30 * time.Second
	cacheTimeout    = 10 * time.Second
	copyTimeout     = 5 * time.Second

	// removeDelay keeps the sent badge on screen before the answered card
	// leaves the carousel.
	removeDelay = 500 * time.Millisecond
)

// View is the Bubble Tea sub-model for one category tab: a card carousel
// with per-card drafting state.
type View struct {
	ctrl         *Controller
	cards        map[string]*cardState
	persister    *Persister
	svc          Service
	bus          *notify.Bus
	runner       executil.Runner
	copyCommand  string
	typeInterval time.Duration
	sp           spinner.Model
	spinning     bool
	variants     *VariantsModal
	preview      *PreviewModal
	lastID       string
	width        int
	height       int
	loaded       bool
}

// New creates a cards view for one category.
func New(cat item.Category, svc Service, bus *notify.Bus, cfg config.TUIConfig) View {
	if bus == nil {
		bus = notify.NewBus(nil)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TextPrimaryStyle

	return View{
		ctrl:         NewController(cat),
		cards:        make(map[string]*cardState),
		persister:    NewPersister(cfg.AutosaveWindow.Std()),
		svc:          svc,
		bus:          bus,
		runner:       executil.ShellRunner{},
		copyCommand:  cfg.CopyCommand,
		typeInterval: cfg.TypewriterInterval.Std(),
		sp:           sp,
		spinning:     true,
	}
}

// Category returns the view's category.
func (v View) Category() item.Category { return v.ctrl.Category() }

// SetLastID seeds the card position to restore when items first load.
func (v *View) SetLastID(id string) { v.lastID = id }

// Init returns the initial commands: the first item fetch plus the loading
// spinner.
func (v View) Init() tea.Cmd {
	return tea.Batch(v.fetchItems(), v.sp.Tick)
}

// Reload refetches the category's items. The visible card keeps its
// position when it survives the refresh.
func (v *View) Reload() tea.Cmd {
	if cur, ok := v.ctrl.Current(); ok {
		v.lastID = cur.ID
	}
	return v.fetchItems()
}

// Update handles messages for the cards view.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	if cm, ok := msg.(categorized); ok && cm.category() != v.ctrl.Category() {
		return v, nil
	}

	switch msg := msg.(type) {
	case itemsLoadedMsg:
		return v.handleItemsLoaded(msg)
	case draftMsg:
		return v.handleDraft(msg)
	case typeTickMsg:
		return v.handleTypeTick(msg)
	case saveTickMsg:
		return v.handleSaveTick(msg)
	case draftSavedMsg:
		return v.handleDraftSaved(msg)
	case variantsMsg:
		return v.handleVariants(msg)
	case replyDoneMsg:
		return v.handleReplyDone(msg)
	case removeItemMsg:
		return v.handleRemoveItem(msg)
	case spinner.TickMsg:
		return v.handleSpinnerTick(msg)
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// HandleAction applies a resolved keybinding action to the view.
func (v View) HandleAction(action string) (View, tea.Cmd) {
	switch action {
	case config.ActionNext:
		if v.ctrl.NavEnabled() {
			v.ctrl.Next()
			return v, v.announceCurrent()
		}

	case config.ActionPrev:
		if v.ctrl.NavEnabled() {
			v.ctrl.Prev()
			return v, v.announceCurrent()
		}

	case config.ActionRefresh:
		return v, v.Reload()

	case config.ActionEditDraft:
		if st, _, ok := v.currentCard(); ok {
			st.focus = focusDraft
			st.prompt.Blur()
			return v, st.draft.Focus()
		}

	case config.ActionEditPrompt:
		if st, _, ok := v.currentCard(); ok {
			st.focus = focusPrompt
			st.draft.Blur()
			return v, st.prompt.Focus()
		}

	case config.ActionSend:
		return v.sendCurrent()

	case config.ActionRegenerate:
		if st, cur, ok := v.currentCard(); ok && !st.generating {
			return v.regenerate(cur, st)
		}

	case config.ActionPreview:
		if st, cur, ok := v.currentCard(); ok {
			modal := NewPreviewModal(cur, st.draft.Value(), v.width, v.height)
			v.preview = &modal
		}

	case config.ActionCopy:
		return v.copyCurrent()
	}
	return v, nil
}

// View renders the carousel window for this category.
func (v View) View() string {
	switch {
	case !v.loaded:
		return v.renderStatus(v.sp.View() + " Loading " + string(v.ctrl.Category()) + "...")

	case v.ctrl.LoadErr() != nil:
		return v.renderStatus(lipgloss.JoinVertical(lipgloss.Center,
			styles.TextErrorStyle.Render("Could not reach the dashboard API."),
			styles.TextMutedStyle.Render(v.ctrl.LoadErr().Error()),
			"",
			styles.TextMutedStyle.Render("[r] retry"),
		))

	case v.ctrl.Empty():
		return v.renderStatus(lipgloss.JoinVertical(lipgloss.Center,
			styles.TextSuccessStyle.Render(styles.IconQuill+" All caught up!"),
			styles.TextMutedStyle.Render("No unanswered "+string(v.ctrl.Category())+"."),
		))
	}

	items := v.ctrl.Items()
	render := func(i int) string {
		it := items[i]
		st := v.cards[it.ID]
		if st == nil {
			return ""
		}
		return renderCard(it, st, v.ctrl.SurfaceWidth(), v.ctrl.Counter(), v.ctrl.NavEnabled(), v.sp.View())
	}
	return renderStrip(v.ctrl.Len(), v.ctrl.SurfaceWidth(), v.width, v.height, v.ctrl.Offset(), render)
}

func (v View) renderStatus(content string) string {
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

// HasEditorFocus returns true when a card input owns the keyboard, so the
// shell delegates raw keys instead of resolving keybindings.
func (v View) HasEditorFocus() bool {
	st, _, ok := v.currentCard()
	return ok && st.focus != focusNone
}

// ModalActive returns true when the variants or preview modal is open.
func (v View) ModalActive() bool {
	return v.variants != nil || v.preview != nil
}

// SetSize updates the view dimensions and resizes every card.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ctrl.SetSurfaceWidth(width)
	for _, st := range v.cards {
		st.setWidth(width)
	}
}

// Overlay renders the view's modal over the given background, if one is
// open.
func (v View) Overlay(background string, width, height int) string {
	if v.variants != nil {
		return v.variants.Overlay(background, width, height)
	}
	if v.preview != nil {
		return v.preview.Overlay(background, width, height)
	}
	return background
}

func (v View) currentCard() (*cardState, item.Item, bool) {
	cur, ok := v.ctrl.Current()
	if !ok {
		return nil, item.Item{}, false
	}
	st := v.cards[cur.ID]
	if st == nil {
		return nil, item.Item{}, false
	}
	return st, cur, true
}

func (v View) handleItemsLoaded(msg itemsLoadedMsg) (View, tea.Cmd) {
	v.loaded = true

	if msg.err != nil {
		log.Debug().Err(msg.err).Str("category", string(v.ctrl.Category())).Msg("item fetch failed")
		if v.ctrl.Empty() {
			v.ctrl.SetLoadError(msg.err)
		} else {
			// Keep the cards we have; a failed refresh is only a toast.
			v.bus.Errorf("refresh failed: %v", msg.err)
		}
		return v, nil
	}

	v.ctrl.SetItems(msg.items, v.lastID)

	existing := v.cards
	v.cards = make(map[string]*cardState, len(msg.items))

	var cmds []tea.Cmd
	for _, it := range msg.items {
		if st, ok := existing[it.ID]; ok {
			v.cards[it.ID] = st
			continue
		}
		st := newCardState(v.width)
		st.generating = true
		v.cards[it.ID] = st
		cmds = append(cmds, v.generateDraft(it, "", false, false))
	}
	if len(cmds) > 0 {
		v.ensureSpin(&cmds)
	}

	cmds = append(cmds, v.announceCurrent())
	return v, tea.Batch(cmds...)
}

func (v View) handleDraft(msg draftMsg) (View, tea.Cmd) {
	st, ok := v.cards[msg.id]
	if !ok {
		return v, nil
	}
	st.generating = false

	text := msg.text
	reveal := msg.reveal
	if msg.err != nil {
		log.Debug().Err(msg.err).Str("id", msg.id).Msg("draft generation failed")
		text = ai.FallbackSingle
		reveal = true
	}
	// Mark the text saved either way: generated drafts are already cached
	// server-side, and the apology must not be persisted as a draft unless
	// the operator edits it.
	v.persister.MarkSaved(msg.id, text)

	if reveal && v.typeInterval > 0 {
		rev := st.tw.Start(text)
		st.draft.SetValue("")
		st.grow()
		return v, v.typeTick(msg.id, rev)
	}

	st.tw.Fill(text)
	st.draft.SetValue(text)
	st.grow()
	return v, nil
}

func (v View) handleTypeTick(msg typeTickMsg) (View, tea.Cmd) {
	st, ok := v.cards[msg.id]
	if !ok {
		return v, nil
	}

	more := st.tw.Advance(msg.rev)
	if msg.rev != st.tw.Revision() {
		return v, nil
	}

	st.draft.SetValue(st.tw.Partial())
	st.grow()
	if more {
		return v, v.typeTick(msg.id, msg.rev)
	}
	return v, nil
}

func (v View) handleSaveTick(msg saveTickMsg) (View, tea.Cmd) {
	st, ok := v.cards[msg.id]
	if !ok {
		return v, nil
	}
	text, ok := v.persister.Fire(msg.id, msg.seq, st.draft.Value())
	if !ok {
		return v, nil
	}
	return v, v.saveDraft(msg.id, text)
}

func (v View) handleDraftSaved(msg draftSavedMsg) (View, tea.Cmd) {
	if msg.err != nil {
		// Autosave failures are silent; the next edit retries anyway.
		log.Debug().Err(msg.err).Str("id", msg.id).Msg("draft autosave failed")
	}
	return v, nil
}

func (v View) handleVariants(msg variantsMsg) (View, tea.Cmd) {
	if v.variants == nil || v.variants.ItemID() != msg.id {
		return v, nil
	}
	v.variants.SetResult(msg.variants, msg.err)
	if msg.err != nil {
		log.Debug().Err(msg.err).Str("id", msg.id).Msg("variant generation failed")
		v.bus.Errorf("variant generation failed: %v", msg.err)
	}
	return v, nil
}

func (v View) handleReplyDone(msg replyDoneMsg) (View, tea.Cmd) {
	st, ok := v.cards[msg.id]
	if !ok {
		return v, nil
	}
	st.sending = false

	if msg.err != nil {
		log.Debug().Err(msg.err).Str("id", msg.id).Msg("reply failed")
		var statusErr *dashboard.StatusError
		if errors.As(msg.err, &statusErr) && statusErr.Detail != "" {
			v.bus.Errorf("reply rejected: %s", statusErr.Detail)
		} else {
			v.bus.Errorf("failed to send reply for %s", msg.product)
		}
		return v, nil
	}

	st.sent = true
	v.bus.Infof("reply sent for %s", msg.product)

	cat := v.ctrl.Category()
	return v, tea.Tick(removeDelay, func(time.Time) tea.Msg {
		return removeItemMsg{cat: cat, id: msg.id}
	})
}

func (v View) handleRemoveItem(msg removeItemMsg) (View, tea.Cmd) {
	v.ctrl.Remove(msg.id)
	delete(v.cards, msg.id)
	return v, v.announceCurrent()
}

func (v View) handleSpinnerTick(msg spinner.TickMsg) (View, tea.Cmd) {
	if !v.anyGenerating() {
		v.spinning = false
		return v, nil
	}
	var cmd tea.Cmd
	v.sp, cmd = v.sp.Update(msg)
	return v, cmd
}

func (v View) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.variants != nil {
		return v.handleVariantsKey(msg)
	}
	if v.preview != nil {
		return v.handlePreviewKey(msg)
	}

	st, cur, ok := v.currentCard()
	if !ok {
		return v, nil
	}
	switch st.focus {
	case focusPrompt:
		return v.handlePromptKey(msg, cur, st)
	case focusDraft:
		return v.handleDraftKey(msg, cur.ID, st)
	}
	return v, nil
}

func (v View) handleVariantsKey(msg tea.KeyMsg) (View, tea.Cmd) {
	choice, chosen, closed := v.variants.HandleKey(msg)
	id := v.variants.ItemID()
	if closed {
		v.variants = nil
	}
	if chosen {
		return v.applyVariant(id, choice)
	}
	return v, nil
}

func (v View) handlePreviewKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "v":
		v.preview = nil
	case "up", "k":
		v.preview.ScrollUp()
	case "down", "j":
		v.preview.ScrollDown()
	case "y":
		if err := v.copyDraft(v.preview.Draft()); err != nil {
			v.preview.SetCopyStatus("Copy failed: " + err.Error())
		} else {
			v.preview.SetCopyStatus("Copied!")
		}
	}
	return v, nil
}

func (v View) handlePromptKey(msg tea.KeyMsg, it item.Item, st *cardState) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		st.blur()
		return v, nil
	case "enter":
		st.blur()
		return v.regenerate(it, st)
	}

	var cmd tea.Cmd
	st.prompt, cmd = st.prompt.Update(msg)
	return v, cmd
}

func (v View) handleDraftKey(msg tea.KeyMsg, id string, st *cardState) (View, tea.Cmd) {
	if msg.String() == "esc" {
		st.blur()
		if text, ok := v.persister.Flush(id, st.draft.Value()); ok {
			return v, v.saveDraft(id, text)
		}
		return v, nil
	}

	var cmd tea.Cmd
	st.draft, cmd = st.draft.Update(msg)
	st.grow()
	return v, tea.Batch(cmd, v.scheduleSave(id))
}

// regenerate runs the prompt-driven replacement when the prompt is filled,
// or opens the variants picker when it is blank.
func (v View) regenerate(it item.Item, st *cardState) (View, tea.Cmd) {
	prompt := strings.TrimSpace(st.prompt.Value())
	if prompt == "" {
		return v.openVariants(it)
	}

	st.generating = true
	var cmds []tea.Cmd
	v.ensureSpin(&cmds)
	cmds = append(cmds, v.generateDraft(it, prompt, true, false))
	return v, tea.Batch(cmds...)
}

func (v View) openVariants(it item.Item) (View, tea.Cmd) {
	v.variants = NewVariantsModal(it.ID, it.Product.Name)

	svc := v.svc
	cat := v.ctrl.Category()
	return v, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		variants, err := svc.GenerateVariants(ctx, item.NewGenerateRequest(it, "", true))
		return variantsMsg{cat: cat, id: it.ID, variants: variants, err: err}
	}
}

func (v View) applyVariant(id string, variant dashboard.Variant) (View, tea.Cmd) {
	st, ok := v.cards[id]
	if !ok {
		return v, nil
	}

	st.tw.Fill(variant.Text)
	st.draft.SetValue(variant.Text)
	st.grow()
	v.persister.MarkSaved(id, variant.Text)
	return v, v.saveDraft(id, variant.Text)
}

func (v View) sendCurrent() (View, tea.Cmd) {
	st, cur, ok := v.currentCard()
	if !ok || st.sending || st.sent {
		return v, nil
	}

	text := strings.TrimSpace(st.draft.Value())
	if text == "" {
		v.bus.Errorf("reply is empty, nothing to send")
		return v, nil
	}

	st.sending = true
	return v, v.sendReply(cur, text)
}

func (v View) copyCurrent() (View, tea.Cmd) {
	st, _, ok := v.currentCard()
	if !ok {
		return v, nil
	}
	if err := v.copyDraft(st.draft.Value()); err != nil {
		v.bus.Errorf("copy failed: %v", err)
	} else {
		v.bus.Infof("draft copied to clipboard")
	}
	return v, nil
}

func (v View) copyDraft(text string) error {
	if strings.TrimSpace(v.copyCommand) == "" {
		return errors.New("no copy command configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
	defer cancel()
	return v.runner.RunSh(ctx, v.copyCommand, []byte(text))
}

func (v View) anyGenerating() bool {
	if !v.loaded {
		return true
	}
	for _, st := range v.cards {
		if st.generating {
			return true
		}
	}
	return false
}

func (v *View) ensureSpin(cmds *[]tea.Cmd) {
	if v.spinning {
		return
	}
	v.spinning = true
	*cmds = append(*cmds, v.sp.Tick)
}

// announceCurrent emits the visible card's id for the shell to persist.
func (v View) announceCurrent() tea.Cmd {
	cat := v.ctrl.Category()
	id := ""
	if cur, ok := v.ctrl.Current(); ok {
		id = cur.ID
	}
	return func() tea.Msg { return CurrentChangedMsg{Cat: cat, ID: id} }
}

func (v View) fetchItems() tea.Cmd {
	svc := v.svc
	cat := v.ctrl.Category()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		items, err := svc.Items(ctx, cat)
		return itemsLoadedMsg{cat: cat, items: items, err: err}
	}
}

func (v View) generateDraft(it item.Item, prompt string, force, reveal bool) tea.Cmd {
	svc := v.svc
	cat := v.ctrl.Category()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		text, err := svc.Generate(ctx, item.NewGenerateRequest(it, prompt, force))
		return draftMsg{cat: cat, id: it.ID, text: text, reveal: reveal, err: err}
	}
}

func (v View) sendReply(it item.Item, text string) tea.Cmd {
	svc := v.svc
	cat := v.ctrl.Category()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		err := svc.Reply(ctx, item.NewReply(it, text))
		return replyDoneMsg{cat: cat, id: it.ID, product: it.Product.Name, err: err}
	}
}

func (v View) saveDraft(id, text string) tea.Cmd {
	svc := v.svc
	cat := v.ctrl.Category()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
		defer cancel()
		return draftSavedMsg{cat: cat, id: id, err: svc.CacheDraft(ctx, id, text)}
	}
}

func (v View) typeTick(id string, rev int) tea.Cmd {
	cat := v.ctrl.Category()
	return tea.Tick(v.typeInterval, func(time.Time) tea.Msg {
		return typeTickMsg{cat: cat, id: id, rev: rev}
	})
}

func (v View) scheduleSave(id string) tea.Cmd {
	seq, delay := v.persister.Touch(id)
	cat := v.ctrl.Category()
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return saveTickMsg{cat: cat, id: id, seq: seq}
	})
}
