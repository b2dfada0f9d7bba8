package cards

import (
	"fmt"

	"github.com/colonyops/quill/internal/core/item"
)

// Controller holds the carousel state for one category: the item list, the
// visible index, and the strip offset derived from them. It contains pure
// data logic with no Bubble Tea dependencies.
type Controller struct {
	category     item.Category
	items        []item.Item
	index        int
	surfaceWidth int
	loadErr      error
}

// NewController creates a carousel controller for one category.
func NewController(cat item.Category) *Controller {
	return &Controller{category: cat}
}

// Category returns the category this controller navigates.
func (c *Controller) Category() item.Category { return c.category }

// SetItems replaces the item list. When lastID matches an item the carousel
// resumes at that position, otherwise it starts at the first card.
func (c *Controller) SetItems(items []item.Item, lastID string) {
	c.items = items
	c.loadErr = nil
	c.index = 0
	if lastID == "" {
		return
	}
	for i, it := range items {
		if it.ID == lastID {
			c.index = i
			return
		}
	}
}

// SetLoadError records a failed fetch and clears the list so the view falls
// back to its error state.
func (c *Controller) SetLoadError(err error) {
	c.items = nil
	c.index = 0
	c.loadErr = err
}

// LoadErr returns the last fetch error, nil after a successful SetItems.
func (c *Controller) LoadErr() error { return c.loadErr }

// Len returns the number of items.
func (c *Controller) Len() int { return len(c.items) }

// Empty reports whether the carousel has no items.
func (c *Controller) Empty() bool { return len(c.items) == 0 }

// Items returns the backing item list.
func (c *Controller) Items() []item.Item { return c.items }

// Index returns the position of the visible card.
func (c *Controller) Index() int { return c.index }

// Current returns the visible item.
func (c *Controller) Current() (item.Item, bool) {
	if c.Empty() {
		return item.Item{}, false
	}
	return c.items[c.index], true
}

// Next advances one card, wrapping to the first after the last.
func (c *Controller) Next() { c.Goto(c.index + 1) }

// Prev steps back one card, wrapping to the last before the first.
func (c *Controller) Prev() { c.Goto(c.index - 1) }

// Goto moves to position i with single-step wraparound: any position before
// the start lands on the last card, any past the end on the first.
func (c *Controller) Goto(i int) {
	n := len(c.items)
	if n == 0 {
		return
	}
	switch {
	case i < 0:
		i = n - 1
	case i >= n:
		i = 0
	}
	c.index = i
}

// NavEnabled reports whether navigation is meaningful, i.e. more than one
// card exists.
func (c *Controller) NavEnabled() bool { return len(c.items) > 1 }

// Counter renders the "current / total" position indicator.
func (c *Controller) Counter() string {
	if c.Empty() {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", c.index+1, len(c.items))
}

// SetSurfaceWidth sets the card column width the strip offset derives from.
func (c *Controller) SetSurfaceWidth(w int) { c.surfaceWidth = w }

// SurfaceWidth returns the card column width.
func (c *Controller) SurfaceWidth() int { return c.surfaceWidth }

// Offset returns the horizontal translation of the card strip that aligns
// the visible card with the left edge of the window.
func (c *Controller) Offset() int { return -c.index * c.surfaceWidth }

// Remove drops the item with the given id. The index clamps to the list so
// the successor of a removed middle card takes its place; removing the last
// card steps back one.
func (c *Controller) Remove(id string) {
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if c.index > len(c.items)-1 {
		c.index = max(len(c.items)-1, 0)
	}
}
