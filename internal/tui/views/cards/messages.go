package cards

import (
	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/dashboard"
)

// All internal messages carry the category so the shell can route them to
// the view that issued the command; a view ignores messages for the other
// category.

// itemsLoadedMsg delivers the item list fetch result for one category.
type itemsLoadedMsg struct {
	cat   item.Category
	items []item.Item
	err   error
}

// draftMsg delivers a single-draft generation result. reveal selects the
// typewriter animation; it is false on the initial auto-request and on
// prompt-driven replacement.
type draftMsg struct {
	cat    item.Category
	id     string
	text   string
	reveal bool
	err    error
}

// variantsMsg delivers the multi-draft result for the variants modal.
type variantsMsg struct {
	cat      item.Category
	id       string
	variants []dashboard.Variant
	err      error
}

// replyDoneMsg delivers the reply submission outcome.
type replyDoneMsg struct {
	cat     item.Category
	id      string
	product string
	err     error
}

// removeItemMsg fires after the post-send pause to drop the answered card.
type removeItemMsg struct {
	cat item.Category
	id  string
}

// saveTickMsg fires when an autosave window elapses. A tick carrying a
// sequence older than the persister's current one is stale and does nothing.
type saveTickMsg struct {
	cat item.Category
	id  string
	seq int
}

// draftSavedMsg reports a background draft persist outcome.
type draftSavedMsg struct {
	cat item.Category
	id  string
	err error
}

// typeTickMsg advances a typewriter reveal. rev pins the tick to one reveal;
// a restart strands ticks from the previous one.
type typeTickMsg struct {
	cat item.Category
	id  string
	rev int
}

// CurrentChangedMsg reports that the visible card of a category changed.
// The shell persists the id so the next session restores the position.
type CurrentChangedMsg struct {
	Cat item.Category
	ID  string
}

// categorized is implemented by every internal message so the view can
// drop messages addressed to the other category in one place.
type categorized interface {
	category() item.Category
}

func (m itemsLoadedMsg) category() item.Category { return m.cat }
func (m draftMsg) category() item.Category       { return m.cat }
func (m variantsMsg) category() item.Category    { return m.cat }
func (m replyDoneMsg) category() item.Category   { return m.cat }
func (m removeItemMsg) category() item.Category  { return m.cat }
func (m saveTickMsg) category() item.Category    { return m.cat }
func (m draftSavedMsg) category() item.Category  { return m.cat }
func (m typeTickMsg) category() item.Category    { return m.cat }
