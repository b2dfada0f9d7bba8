package cards

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// renderStrip lays the cards out on one horizontal strip and returns the
// window of columns [-offset, -offset+window). Cards occupy colWidth
// columns each; only cards intersecting the window are materialized, the
// rest never render. The cut is display-cell aware so styled card chrome
// survives a crop mid-card.
func renderStrip(count, colWidth, window, height, offset int, render func(int) string) string {
	if count == 0 || colWidth <= 0 || window <= 0 || height <= 0 {
		return ""
	}

	start := -offset
	end := start + window

	first := start / colWidth
	last := (end - 1) / colWidth
	if first < 0 {
		first = 0
	}
	if last > count-1 {
		last = count - 1
	}
	if first > last {
		return ensureExactWidth(ensureExactHeight("", height), window)
	}

	cols := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		card := ensureExactHeight(render(i), height)
		cols = append(cols, ensureExactWidth(card, colWidth))
	}
	joined := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	lo := start - first*colWidth
	lines := strings.Split(joined, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, lo, lo+window)
	}
	return ensureExactWidth(strings.Join(lines, "\n"), window)
}

// ensureExactWidth pads or truncates every line to exactly width display
// cells. JoinHorizontal and the strip cut both require uniform line widths.
func ensureExactWidth(content string, width int) string {
	if width <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		w := ansi.StringWidth(line)
		switch {
		case w < width:
			lines[i] = line + strings.Repeat(" ", width-w)
		case w > width:
			truncated := ansi.TruncateWc(line, width, "")
			if tw := ansi.StringWidth(truncated); tw < width {
				truncated += strings.Repeat(" ", width-tw)
			}
			lines[i] = truncated
		}
	}
	return strings.Join(lines, "\n")
}

// ensureExactHeight pads or truncates content to exactly n lines.
func ensureExactHeight(content string, n int) string {
	if n <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
