// Package item defines the feedback and question domain model shared by the
// dashboard client, the API server, and the marketplace upstream client.
package item

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies one of the two dashboard tabs. The values double as
// wire names in the dashboard API paths.
type Category string

const (
	CategoryFeedbacks Category = "feedbacks"
	CategoryQuestions Category = "questions"
)

// Categories lists all categories in tab order.
func Categories() []Category {
	return []Category{CategoryFeedbacks, CategoryQuestions}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryFeedbacks || c == CategoryQuestions
}

// Label returns the tab label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryFeedbacks:
		return "Feedbacks"
	case CategoryQuestions:
		return "Questions"
	default:
		return string(c)
	}
}

// ReplyType returns the reply payload type discriminator for the category.
// The discriminator doubles as the category wire name.
func (c Category) ReplyType() string {
	return string(c)
}

// Product carries the product card details attached to an item.
type Product struct {
	NmID  int64  `json:"nmId"`
	Name  string `json:"productName"`
	Photo string `json:"photo,omitempty"`
}

// URL returns the marketplace catalog page for the product.
func (p Product) URL() string {
	if p.NmID == 0 {
		return ""
	}
	return fmt.Sprintf("https://www.wildberries.ru/catalog/%d/detail.aspx", p.NmID)
}

// Feedback is an unanswered product review as served by the dashboard API.
type Feedback struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Rating      int      `json:"productValuation"`
	CreatedDate string   `json:"createdDate"`
	Product     Product  `json:"productDetails"`
	Pluses      string   `json:"pluses,omitempty"`
	Minuses     string   `json:"minuses,omitempty"`
	UserName    string   `json:"userName,omitempty"`
	Advantages  []string `json:"advantages,omitempty"`
}

// Question is an unanswered buyer question as served by the dashboard API.
type Question struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	CreatedDate string  `json:"createdDate"`
	Product     Product `json:"productDetails"`
	UserName    string  `json:"userName,omitempty"`
}

// Item is the unified card view the dashboard renders. Questions carry a
// zero Rating and empty Pluses/Minuses/Advantages.
type Item struct {
	ID          string
	Category    Category
	Text        string
	Rating      int
	CreatedDate string
	Product     Product
	Pluses      string
	Minuses     string
	UserName    string
	Advantages  []string
}

// Item converts the feedback to the unified card view.
func (f Feedback) Item() Item {
	return Item{
		ID:          f.ID,
		Category:    CategoryFeedbacks,
		Text:        f.Text,
		Rating:      f.Rating,
		CreatedDate: f.CreatedDate,
		Product:     f.Product,
		Pluses:      f.Pluses,
		Minuses:     f.Minuses,
		UserName:    f.UserName,
		Advantages:  f.Advantages,
	}
}

// Item converts the question to the unified card view.
func (q Question) Item() Item {
	return Item{
		ID:          q.ID,
		Category:    CategoryQuestions,
		Text:        q.Text,
		CreatedDate: q.CreatedDate,
		Product:     q.Product,
		UserName:    q.UserName,
	}
}

// Feedback converts the unified card view back to the feedback wire shape.
func (i Item) Feedback() Feedback {
	return Feedback{
		ID:          i.ID,
		Text:        i.Text,
		Rating:      i.Rating,
		CreatedDate: i.CreatedDate,
		Product:     i.Product,
		Pluses:      i.Pluses,
		Minuses:     i.Minuses,
		UserName:    i.UserName,
		Advantages:  i.Advantages,
	}
}

// Question converts the unified card view back to the question wire shape.
func (i Item) Question() Question {
	return Question{
		ID:          i.ID,
		Text:        i.Text,
		CreatedDate: i.CreatedDate,
		Product:     i.Product,
		UserName:    i.UserName,
	}
}

// CreatedAt parses the item's creation date. Returns the zero time when the
// upstream string is absent or unparseable.
func (i Item) CreatedAt() time.Time {
	return ParseCreated(i.CreatedDate)
}

// ComposedBody joins the present-and-nonblank comment, pluses, and minuses
// sections under labeled blocks. Returns "" when all sections are blank;
// the renderer substitutes its placeholder.
func (i Item) ComposedBody() string {
	var blocks []string
	if s := strings.TrimSpace(i.Text); s != "" {
		blocks = append(blocks, "Comment: "+s)
	}
	if s := strings.TrimSpace(i.Pluses); s != "" {
		blocks = append(blocks, "Pros: "+s)
	}
	if s := strings.TrimSpace(i.Minuses); s != "" {
		blocks = append(blocks, "Cons: "+s)
	}
	return strings.Join(blocks, "\n\n")
}

// createdLayouts covers the timestamp shapes the marketplace API emits.
var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseCreated parses an upstream creation timestamp, tolerating the
// fractional and zone variants seen in the wild. Zero time on failure.
func ParseCreated(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
