package tui

import "github.com/colonyops/quill/internal/core/item"

// ViewType identifies a dashboard tab.
type ViewType int

const (
	ViewFeedbacks ViewType = iota
	ViewQuestions
)

// String returns the lowercase name of the tab, matching the item category.
func (v ViewType) String() string {
	if v == ViewQuestions {
		return "questions"
	}
	return "feedbacks"
}

// Category returns the item category displayed by this tab.
func (v ViewType) Category() item.Category {
	if v == ViewQuestions {
		return item.CategoryQuestions
	}
	return item.CategoryFeedbacks
}

// next returns the other tab, for tab cycling.
func (v ViewType) next() ViewType {
	if v == ViewFeedbacks {
		return ViewQuestions
	}
	return ViewFeedbacks
}

// viewTypeFor maps a persisted tab name back to a ViewType.
// Unknown names fall back to the feedbacks tab.
func viewTypeFor(name string) ViewType {
	if name == ViewQuestions.String() {
		return ViewQuestions
	}
	return ViewFeedbacks
}
