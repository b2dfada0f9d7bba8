package tui

import (
	"github.com/colonyops/quill/internal/dashboard"
	"github.com/colonyops/quill/internal/tui/views/cards"
)

// Compile-time check that *dashboard.Client satisfies the card view's
// service contract.
var _ cards.Service = (*dashboard.Client)(nil)
