package wb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/colonyops/quill/internal/core/item"
)

// wbProduct is the productDetails block of a raw entry.
type wbProduct struct {
	NmID        int64  `json:"nmId"`
	ProductName string `json:"productName"`
}

// wbFeedback covers the typed fields of a raw feedback entry. Advantage tags
// live under unstable keys and are pulled from the generic map separately.
type wbFeedback struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	Pros             string    `json:"pros"`
	Cons             string    `json:"cons"`
	Pluses           string    `json:"pluses"`
	Minuses          string    `json:"minuses"`
	ProductValuation int       `json:"productValuation"`
	CreatedDate      string    `json:"createdDate"`
	UserName         string    `json:"userName"`
	ProductDetails   wbProduct `json:"productDetails"`
}

type wbQuestion struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	CreatedDate    string    `json:"createdDate"`
	UserName       string    `json:"userName"`
	ProductDetails wbProduct `json:"productDetails"`
}

// parseFeedback normalizes one raw feedback entry: pros/cons fold into
// pluses/minuses, advantage tags are extracted from their various keys, and
// the product photo is derived from the nomenclature id.
func parseFeedback(raw json.RawMessage) (item.Feedback, error) {
	var fb wbFeedback
	if err := json.Unmarshal(raw, &fb); err != nil {
		return item.Feedback{}, fmt.Errorf("decode feedback: %w", err)
	}
	if fb.ID == "" {
		return item.Feedback{}, fmt.Errorf("feedback entry missing id")
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return item.Feedback{}, fmt.Errorf("decode feedback map: %w", err)
	}

	pluses := firstNonBlank(fb.Pluses, fb.Pros)
	minuses := firstNonBlank(fb.Minuses, fb.Cons)

	return item.Feedback{
		ID:          fb.ID,
		Text:        fb.Text,
		Rating:      fb.ProductValuation,
		CreatedDate: fb.CreatedDate,
		Product: item.Product{
			NmID:  fb.ProductDetails.NmID,
			Name:  fb.ProductDetails.ProductName,
			Photo: PhotoURL(fb.ProductDetails.NmID),
		},
		Pluses:     pluses,
		Minuses:    minuses,
		UserName:   fb.UserName,
		Advantages: extractAdvantages(generic),
	}, nil
}

func parseQuestion(raw json.RawMessage) (item.Question, error) {
	var q wbQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return item.Question{}, fmt.Errorf("decode question: %w", err)
	}
	if q.ID == "" {
		return item.Question{}, fmt.Errorf("question entry missing id")
	}

	return item.Question{
		ID:          q.ID,
		Text:        q.Text,
		CreatedDate: q.CreatedDate,
		Product: item.Product{
			NmID:  q.ProductDetails.NmID,
			Name:  q.ProductDetails.ProductName,
			Photo: PhotoURL(q.ProductDetails.NmID),
		},
		UserName: q.UserName,
	}, nil
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
