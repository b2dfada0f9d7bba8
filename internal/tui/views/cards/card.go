package cards

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/core/styles"
)

// focusZone identifies which input of a card owns the keyboard.
type focusZone int

const (
	focusNone focusZone = iota
	focusPrompt
	focusDraft
)

const (
	iconDot      = "•"
	unknownBuyer = "unknown"

	draftMinRows = 3
	draftMaxRows = 8
	cardChrome   = 4 // rounded border plus horizontal padding
	fieldChrome  = 2 // field edge border plus left padding
)

// cardState holds the mutable UI state of one item card.
type cardState struct {
	prompt     textinput.Model
	draft      textarea.Model
	tw         Typewriter
	width      int
	generating bool
	sending    bool
	sent       bool
	focus      focusZone
}

func newCardState(width int) *cardState {
	ti := textinput.New()
	ti.Placeholder = "guide the next draft, e.g. shorter and more formal"
	ti.Prompt = ""

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	ta := textarea.New()
	ta.Placeholder = "reply draft"
	ta.SetHeight(draftMinRows)

	st := &cardState{prompt: ti, draft: ta}
	st.setWidth(width)
	return st
}

// setWidth resizes both inputs to the card's inner width.
func (st *cardState) setWidth(width int) {
	st.width = width
	inner := max(width-cardChrome-fieldChrome, 20)
	st.prompt.SetWidth(inner)
	st.draft.SetWidth(inner)
	st.grow()
}

// grow resizes the draft textarea with its content, between the minimum
// and maximum row counts.
func (st *cardState) grow() {
	inner := max(st.width-cardChrome-fieldChrome, 20)
	st.draft.SetHeight(draftRows(st.draft.Value(), inner))
}

// blur drops keyboard focus from both inputs.
func (st *cardState) blur() {
	st.focus = focusNone
	st.prompt.Blur()
	st.draft.Blur()
}

// draftRows estimates the rendered row count of text soft-wrapped at width,
// clamped to the draft's growth range.
func draftRows(text string, width int) int {
	if width <= 0 {
		return draftMinRows
	}
	rows := 0
	for _, line := range strings.Split(text, "\n") {
		w := lipgloss.Width(line)
		rows += 1 + w/width
	}
	if rows < draftMinRows {
		return draftMinRows
	}
	if rows > draftMaxRows {
		return draftMaxRows
	}
	return rows
}

// renderCard draws one item card at exactly width columns.
func renderCard(it item.Item, st *cardState, width int, counter string, navEnabled bool, spin string) string {
	inner := width - cardChrome

	buyer := strings.TrimSpace(it.UserName)
	if buyer == "" {
		buyer = unknownBuyer
	}

	rows := []string{
		styles.CardTitleStyle.Render(it.Product.Name),
		styles.CardLinkStyle.Render(it.Product.URL()),
		styles.CardMetaStyle.Render(styles.IconUser + " " + buyer + "  " + styles.IconCalendar + " " + formatCreated(it)),
	}

	if it.Category == item.CategoryFeedbacks {
		rating := renderStars(it.Rating)
		if chips := renderChips(it.Advantages); chips != "" {
			rating += "  " + chips
		}
		rows = append(rows, rating)
	}

	rows = append(rows,
		"",
		renderBody(it, inner),
		"",
		renderField("Prompt", st.prompt.View(), st.focus == focusPrompt),
		renderDraft(st, spin),
		renderControls(st, inner, counter, navEnabled),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CardStyle.Render(ensureExactWidth(content, inner))
}

func formatCreated(it item.Item) string {
	created := it.CreatedAt()
	if created.IsZero() {
		return it.CreatedDate
	}
	return created.Format("02 Jan 2006 15:04") + " " + iconDot + " " + humanize.Time(created)
}

func renderStars(rating int) string {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		if i <= rating {
			b.WriteString(styles.StarFilledStyle.Render(styles.IconStarFilled))
		} else {
			b.WriteString(styles.StarEmptyStyle.Render(styles.IconStarEmpty))
		}
	}
	return b.String()
}

func renderChips(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	chips := make([]string, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, styles.ChipStyle.Render(tag))
	}
	return strings.Join(chips, " ")
}

// renderBody draws the labeled Comment / Pros / Cons blocks, or the muted
// placeholder when the item carries no text at all.
func renderBody(it item.Item, width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	var blocks []string
	add := func(label, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		blocks = append(blocks, wrap.Render(styles.CardSectionLabelStyle.Render(label+":")+" "+text))
	}
	add("Comment", it.Text)
	add("Pros", it.Pluses)
	add("Cons", it.Minuses)

	if len(blocks) == 0 {
		return styles.CardPlaceholderStyle.Render("(no text)")
	}
	return strings.Join(blocks, "\n")
}

// renderField draws a labeled edge-bordered input, highlighted while
// focused. The input is already sized so the bordered block lands on the
// card's inner width.
func renderField(label, input string, focused bool) string {
	titleStyle := styles.TextMutedStyle
	borderStyle := styles.FormFieldStyle
	if focused {
		titleStyle = styles.FormTitleStyle
		borderStyle = styles.FormFieldFocusedStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(label), input)
	return borderStyle.Render(content)
}

func renderDraft(st *cardState, spin string) string {
	body := st.draft.View()
	if st.generating {
		body = spin + " " + styles.TextMutedStyle.Render("Generating draft...")
	}
	return renderField("Draft", body, st.focus == focusDraft)
}

// renderControls draws the footer: actions on the left, the nav hint and
// position counter on the right.
func renderControls(st *cardState, width int, counter string, navEnabled bool) string {
	var send string
	switch {
	case st.sent:
		send = styles.SentBadgeStyle.Render(styles.IconSend + " Sent")
	case st.sending:
		send = styles.TextWarningStyle.Render("Sending...")
	default:
		send = styles.TextForegroundStyle.Render("[s] send")
	}

	regen := "[g] variants"
	if strings.TrimSpace(st.prompt.Value()) != "" {
		regen = "[g] apply prompt"
	}

	left := send + "  " +
		styles.TextMutedStyle.Render(regen+"  [i] edit  [p] prompt  [v] preview")

	navStyle := styles.TextMutedStyle
	if !navEnabled {
		navStyle = styles.TextSurfaceStyle
	}
	right := navStyle.Render("h ←") + " " +
		styles.CardCounterStyle.Render(counter) + " " +
		navStyle.Render("→ l")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
