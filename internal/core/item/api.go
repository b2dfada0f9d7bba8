package item

// QuestionAnsweredState is the state the marketplace expects on an answered
// question.
const QuestionAnsweredState = "wbRu"

// GenerateRequest is the draft generation payload for both the single and
// the multi-variant endpoint.
type GenerateRequest struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Prompt      string   `json:"prompt,omitempty"`
	Rating      int      `json:"rating,omitempty"`
	Force       bool     `json:"force,omitempty"`
	ProductName string   `json:"productName,omitempty"`
	Advantages  []string `json:"advantages,omitempty"`
	Pluses      string   `json:"pluses,omitempty"`
	Minuses     string   `json:"minuses,omitempty"`
}

// NewGenerateRequest builds the generation payload for an item.
func NewGenerateRequest(it Item, prompt string, force bool) GenerateRequest {
	return GenerateRequest{
		ID:          it.ID,
		Text:        it.Text,
		Prompt:      prompt,
		Rating:      it.Rating,
		Force:       force,
		ProductName: it.Product.Name,
		Advantages:  it.Advantages,
		Pluses:      it.Pluses,
		Minuses:     it.Minuses,
	}
}

// GenerateResponse wraps a single generated draft.
type GenerateResponse struct {
	Response string `json:"response"`
}

// ReplyAnswer carries the answer text of a question reply.
type ReplyAnswer struct {
	Text string `json:"text"`
}

// ReplyRequest is the reply submission payload. Feedback replies carry the
// text at the top level; question replies nest it under answer and set the
// answered state.
type ReplyRequest struct {
	ID     string       `json:"id"`
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Answer *ReplyAnswer `json:"answer,omitempty"`
	State  string       `json:"state,omitempty"`
}

// NewFeedbackReply builds a feedback reply payload.
func NewFeedbackReply(id, text string) ReplyRequest {
	return ReplyRequest{ID: id, Type: CategoryFeedbacks.ReplyType(), Text: text}
}

// NewQuestionReply builds a question reply payload.
func NewQuestionReply(id, text string) ReplyRequest {
	return ReplyRequest{
		ID:     id,
		Type:   CategoryQuestions.ReplyType(),
		Answer: &ReplyAnswer{Text: text},
		State:  QuestionAnsweredState,
	}
}

// NewReply builds the reply payload matching the item's category.
func NewReply(it Item, text string) ReplyRequest {
	if it.Category == CategoryQuestions {
		return NewQuestionReply(it.ID, text)
	}
	return NewFeedbackReply(it.ID, text)
}

// ReplyText returns the answer text regardless of payload shape, preferring
// the nested answer and falling back to the top-level text.
func (r ReplyRequest) ReplyText() string {
	if r.Answer != nil && r.Answer.Text != "" {
		return r.Answer.Text
	}
	return r.Text
}

// CacheRequest persists a selected or edited draft for an item.
type CacheRequest struct {
	ID       string `json:"id"`
	Response string `json:"response"`
}
