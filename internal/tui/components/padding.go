package components

import "strings"

// Pad returns a string of n spaces. Negative widths collapse to empty so
// layout code can subtract freely.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
