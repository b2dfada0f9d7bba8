package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/tui/components"
)

// tabChromeHeight is the vertical space consumed by the tab bar:
// top divider (1) + header (1) + bottom divider (1).
const tabChromeHeight = 3

func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	mainView := m.renderTabView()

	// Ensure we have dimensions for modals
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	var content string
	switch {
	case m.notificationModal != nil:
		content = m.notificationModal.Overlay(mainView, w, h)
	case m.helpDialog != nil:
		content = m.helpDialog.Overlay(mainView, w, h)
	default:
		// The active view composites its own modals over the tab layout.
		content = m.active().Overlay(mainView, w, h)
	}

	// Apply toast overlay on top of everything
	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderTabView renders the tab-based view layout.
func (m Model) renderTabView() string {
	// Render each tab with appropriate style
	renderTab := func(label string, view ViewType) string {
		if m.activeTab == view {
			return styles.ViewSelectedStyle.Render(label)
		}
		return styles.ViewNormalStyle.Render(label)
	}

	tabs := []string{
		renderTab("Feedbacks", ViewFeedbacks),
		renderTab("Questions", ViewQuestions),
	}
	tabsLeft := strings.Join(tabs, " | ")

	// Branding on right with background
	branding := styles.TabBrandingStyle.Render(styles.IconQuill + " Quill")

	// Calculate spacing to push branding to right edge with even margins
	// Layout: [margin] tabs [spacer] branding [margin]
	margin := 1
	tabsWidth := lipgloss.Width(tabsLeft)
	brandingWidth := lipgloss.Width(branding)
	spacerWidth := max(m.width-tabsWidth-brandingWidth-(margin*2), 1)
	leftMargin := components.Pad(margin)
	spacer := components.Pad(spacerWidth)
	rightMargin := components.Pad(margin)

	header := lipgloss.JoinHorizontal(lipgloss.Left, leftMargin, tabsLeft, spacer, branding, rightMargin)

	// Horizontal dividers above and below header
	dividerWidth := m.width
	if dividerWidth < 1 {
		dividerWidth = 80 // default width before WindowSizeMsg
	}
	topDivider := styles.TextMutedStyle.Render(strings.Repeat("─", dividerWidth))
	headerDivider := styles.TextMutedStyle.Render(strings.Repeat("─", dividerWidth))

	// Build content with fixed height to prevent layout shift
	contentHeight := max(m.height-tabChromeHeight, 1)
	content := lipgloss.NewStyle().Height(contentHeight).Render(m.active().View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topDivider,
		header,
		headerDivider,
		content,
	)
}
