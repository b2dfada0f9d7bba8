package tui

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)
