package cards

import (
	"fmt"
	"regexp"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/core/styles"
)

const (
	previewModalMaxWidth  = 100
	previewModalMaxHeight = 30
	previewModalMargin    = 4
	previewModalChrome    = 8
	previewModalPadding   = 4
)

// PreviewModal shows the current draft with markdown rendering, the way the
// marketplace will display it.
type PreviewModal struct {
	item       item.Item
	draft      string
	viewport   viewport.Model
	copyStatus string
}

// NewPreviewModal creates a preview modal for an item's draft.
func NewPreviewModal(it item.Item, draft string, width, height int) PreviewModal {
	modalWidth := min(width-previewModalMargin, previewModalMaxWidth)
	modalHeight := min(height-previewModalMargin, previewModalMaxHeight)
	contentHeight := modalHeight - previewModalChrome

	vp := viewport.New(
		viewport.WithWidth(modalWidth-previewModalPadding),
		viewport.WithHeight(contentHeight),
	)

	m := PreviewModal{
		item:     it,
		draft:    draft,
		viewport: vp,
	}

	m.renderContent(modalWidth - previewModalPadding)
	return m
}

func (m *PreviewModal) renderContent(width int) {
	if strings.TrimSpace(m.draft) == "" {
		m.viewport.SetContent(styles.CardPlaceholderStyle.Render("(empty draft)"))
		return
	}

	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw draft")
		m.viewport.SetContent(m.draft)
		return
	}

	rendered, err := renderer.Render(m.draft)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw draft")
		m.viewport.SetContent(m.draft)
		return
	}

	content := strings.TrimSpace(rendered)
	content = stripLeadingDecorative(content)
	content = stripTrailingDecorative(content)
	m.viewport.SetContent(content)
}

// ScrollUp scrolls the viewport up one line.
func (m *PreviewModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down one line.
func (m *PreviewModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Draft returns the raw draft text for copying.
func (m *PreviewModal) Draft() string {
	return m.draft
}

// SetCopyStatus sets the copy feedback line.
func (m *PreviewModal) SetCopyStatus(status string) {
	m.copyStatus = status
}

// Overlay renders the preview modal centered over the background.
func (m PreviewModal) Overlay(background string, width, height int) string {
	modalWidth := min(width-previewModalMargin, previewModalMaxWidth)
	modalHeight := min(height-previewModalMargin, previewModalMaxHeight)

	buyer := strings.TrimSpace(m.item.UserName)
	if buyer == "" {
		buyer = unknownBuyer
	}
	catStr := styles.PreviewTitleStyle.Render(fmt.Sprintf("[%s]", m.item.Category))
	productStr := styles.TextSuccessStyle.Render(m.item.Product.Name)
	buyerStr := styles.TextMutedStyle.Render(buyer)
	metadata := fmt.Sprintf("%s %s %s %s", catStr, productStr, iconDot, buyerStr)

	if created := m.item.CreatedAt(); !created.IsZero() {
		timeStr := styles.PreviewTimeStyle.Render(created.Format("2006-01-02 15:04"))
		metadata = fmt.Sprintf("%s %s %s", metadata, iconDot, timeStr)
	}

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = styles.PreviewScrollStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	helpText := "[↑/↓/j/k] scroll  [y] copy  [enter/esc] close"
	if m.copyStatus != "" {
		helpText = styles.TextSuccessStyle.Render(m.copyStatus)
	}

	divider := styles.PreviewDividerStyle.Render(strings.Repeat("─", 40))
	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Draft Preview"+scrollInfo),
		"",
		metadata,
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render(helpText),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(modalContent)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := (width - lipgloss.Width(modal)) / 2
	centerY := (height - lipgloss.Height(modal)) / 2
	modalLayer.X(max(centerX, 0)).Y(max(centerY, 0)).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, modalLayer)
	return compositor.Render()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// isDecorativeLine reports whether a line is blank or a pure horizontal
// rule once styling is stripped. Glamour pads rendered documents with
// both.
func isDecorativeLine(line string) bool {
	stripped := ansiPattern.ReplaceAllString(line, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		if r != '─' && r != '━' && r != '-' && r != '=' {
			return false
		}
	}
	return true
}

func stripLeadingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && isDecorativeLine(lines[start]) {
		start++
	}
	return strings.Join(lines[start:], "\n")
}

func stripTrailingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	end := len(lines)
	for end > 0 && isDecorativeLine(lines[end-1]) {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
