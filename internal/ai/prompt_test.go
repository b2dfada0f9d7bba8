package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/quill/internal/core/item"
)

func TestUserPromptIsSingleLineWithoutCustom(t *testing.T) {
	req := item.GenerateRequest{
		ProductName: "Ceramic Mug",
		Text:        "Very\nnice мug",
		Rating:      5,
		Pluses:      "solid,\nwarm",
		Minuses:     "a bit heavy",
		Advantages:  []string{"ceramic", " dishwasher safe ", ""},
	}

	got := UserPrompt(req)
	assert.False(t, strings.Contains(got, "\n"), "prompt must be one line: %q", got)
	assert.True(t, strings.HasPrefix(got, "ответь на отзыв расширенно Ceramic Mug"))
	assert.Contains(t, got, "оценка высокая")
	assert.Contains(t, got, "Достоинства: solid, warm")
	assert.Contains(t, got, "Недостатки: a bit heavy")
	assert.Contains(t, got, "Преимущества: ceramic, dishwasher safe")
}

func TestUserPromptSectionOrder(t *testing.T) {
	req := item.GenerateRequest{
		ProductName: "Hat",
		Text:        "ok",
		Rating:      2,
		Pluses:      "warm",
		Minuses:     "itchy",
		Advantages:  []string{"wool"},
	}

	got := UserPrompt(req)
	iName := strings.Index(got, "Hat")
	iText := strings.Index(got, "ok")
	iRating := strings.Index(got, "оценка низкая")
	iPluses := strings.Index(got, "Достоинства:")
	iMinuses := strings.Index(got, "Недостатки:")
	iAdv := strings.Index(got, "Преимущества:")
	assert.True(t, iName < iText && iText < iRating && iRating < iPluses && iPluses < iMinuses && iMinuses < iAdv,
		"section order wrong: %q", got)
}

func TestUserPromptCustomInstructions(t *testing.T) {
	req := item.GenerateRequest{Text: "hi", Prompt: "shorter, no emoji"}
	got := UserPrompt(req)
	assert.Contains(t, got, "\n\nДополнительные указания: shorter, no emoji")
}

func TestRatingContext(t *testing.T) {
	assert.Empty(t, ratingContext(0))
	assert.Contains(t, ratingContext(1), "оценка низкая")
	assert.Contains(t, ratingContext(3), "оценка средняя")
	assert.Contains(t, ratingContext(5), "оценка высокая")
}

func TestVariantLabels(t *testing.T) {
	assert.Equal(t, []string{"gpt", "gpt_v2", "gpt_v3"}, VariantLabels(3))
	assert.Equal(t, []string{"gpt"}, VariantLabels(1))
	assert.Nil(t, VariantLabels(0))
}

func TestNormalize(t *testing.T) {
	in := "Hello  \r\n\r\n\r\n\r\n  world \r\nbye  "
	assert.Equal(t, "Hello\n\nworld\nbye", Normalize(in))
	assert.Equal(t, "", Normalize("  \n \n "))
}
