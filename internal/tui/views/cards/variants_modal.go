package cards

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/dashboard"
)

const (
	variantsModalMaxWidth = 80
	variantsModalMargin   = 4
	variantsModalChrome   = 6 // modal border plus horizontal padding
	variantCardChrome     = 4

	dismissWindow = 2 * time.Second
	skeletonCards = 3
	skeletonLines = 3
)

// VariantsModal picks one of several generated draft variants. It opens
// with skeleton placeholders while generation runs. Dismissal needs the
// explicit close key or two esc presses inside the dismiss window, so one
// stray esc cannot throw away a round of generation.
type VariantsModal struct {
	itemID   string
	product  string
	loading  bool
	variants []dashboard.Variant
	err      error
	selected int
	armedAt  time.Time
	now      func() time.Time
}

// NewVariantsModal opens the picker in its loading state.
func NewVariantsModal(itemID, product string) *VariantsModal {
	return &VariantsModal{
		itemID:  itemID,
		product: product,
		loading: true,
		now:     time.Now,
	}
}

// SetResult fills the modal with the generation outcome.
func (m *VariantsModal) SetResult(variants []dashboard.Variant, err error) {
	m.loading = false
	m.variants = variants
	m.err = err
	m.selected = 0
}

// ItemID returns the item the variants belong to.
func (m *VariantsModal) ItemID() string { return m.itemID }

// Loading reports whether generation is still in flight.
func (m *VariantsModal) Loading() bool { return m.loading }

// HandleKey processes one key press. It returns the chosen variant when
// the operator picked one, and whether the modal should close.
func (m *VariantsModal) HandleKey(msg tea.KeyMsg) (choice dashboard.Variant, chosen, closed bool) {
	switch key := msg.String(); key {
	case "x":
		return dashboard.Variant{}, false, true

	case "esc":
		if m.armed() {
			return dashboard.Variant{}, false, true
		}
		m.armedAt = m.now()
		return dashboard.Variant{}, false, false

	case "enter":
		if m.ready() {
			return m.variants[m.selected], true, true
		}

	case "j", "down", "tab":
		if m.ready() {
			m.selected = (m.selected + 1) % len(m.variants)
		}

	case "k", "up", "shift+tab":
		if m.ready() {
			m.selected = (m.selected - 1 + len(m.variants)) % len(m.variants)
		}

	default:
		if n, err := strconv.Atoi(key); err == nil && m.ready() && n >= 1 && n <= len(m.variants) {
			return m.variants[n-1], true, true
		}
	}
	return dashboard.Variant{}, false, false
}

func (m *VariantsModal) ready() bool {
	return !m.loading && m.err == nil && len(m.variants) > 0
}

// armed reports whether a first esc press is still inside the dismiss
// window.
func (m *VariantsModal) armed() bool {
	return !m.armedAt.IsZero() && m.now().Sub(m.armedAt) <= dismissWindow
}

// View renders the modal box for the given terminal width.
func (m *VariantsModal) View(width int) string {
	modalWidth := min(width-variantsModalMargin, variantsModalMaxWidth)
	inner := max(modalWidth-variantsModalChrome, 20)

	rows := []string{
		styles.ModalTitleStyle.Render(styles.IconRobot + " Draft variants"),
		styles.TextMutedStyle.Render(m.product),
		"",
	}

	switch {
	case m.loading:
		rows = append(rows, m.renderSkeletons(inner)...)
	case m.err != nil:
		rows = append(rows,
			styles.TextErrorStyle.Render("Could not generate variants."),
			styles.TextMutedStyle.Render(m.err.Error()),
		)
	case len(m.variants) == 0:
		rows = append(rows, styles.CardPlaceholderStyle.Render("(no variants)"))
	default:
		for i, v := range m.variants {
			rows = append(rows, m.renderVariant(i, v, inner))
		}
	}

	help := "[1-9/enter] select  [j/k] move  [x] close"
	if m.loading || m.err != nil {
		help = "[x] close"
	}
	if m.armed() {
		help = "press esc again to close"
	}
	rows = append(rows, styles.ModalHelpStyle.Render(help))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.ModalStyle.Render(ensureExactWidth(content, inner))
}

func (m *VariantsModal) renderSkeletons(width int) []string {
	line := styles.SkeletonStyle.Render(strings.Repeat("░", max(width-variantCardChrome, 1)))
	block := strings.TrimSuffix(strings.Repeat(line+"\n", skeletonLines), "\n")

	rows := make([]string, 0, skeletonCards)
	for range skeletonCards {
		rows = append(rows, styles.VariantCardStyle.Render(block))
	}
	return rows
}

func (m *VariantsModal) renderVariant(i int, v dashboard.Variant, width int) string {
	style := styles.VariantCardStyle
	if i == m.selected {
		style = styles.VariantCardSelectedStyle
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.ColorForString(v.Label)).Bold(true)
	header := fmt.Sprintf("%d %s %s", i+1, iconDot, labelStyle.Render(v.Label))

	inner := max(width-variantCardChrome, 1)
	body := lipgloss.NewStyle().Width(inner).Render(v.Text)
	content := lipgloss.JoinVertical(lipgloss.Left, header, body)
	return style.Render(ensureExactWidth(content, inner))
}

// Overlay renders the modal centered over the background.
func (m *VariantsModal) Overlay(background string, width, height int) string {
	modal := m.View(width)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := (width - lipgloss.Width(modal)) / 2
	centerY := (height - lipgloss.Height(modal)) / 2
	modalLayer.X(max(centerX, 0)).Y(max(centerY, 0)).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, modalLayer)
	return compositor.Render()
}
