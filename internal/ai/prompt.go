package ai

import (
	"strconv"
	"strings"

	"github.com/colonyops/quill/internal/core/item"
)

// SystemPrompt instructs the model to answer as the seller, reply-text only.
// The wording is part of the drafting contract and stays in the operators'
// language.
const SystemPrompt = "Ты отвечаешь на отзывы клиентов. Пиши только текст ответа — без предисловий, без предложений переписать. Используй эмодзи естественно, как в живом общении 😊"

// Fallback texts shown in place of a draft when generation fails. These are
// operator-visible contract strings; the client recognizes neither specially.
const (
	FallbackSingle  = "Не удалось получить ответ от ИИ. Попробуйте еще раз."
	FallbackVariant = "Не удалось сгенерировать этот вариант. Попробуйте снова."
)

// VariantLabels returns the n variant labels in generation order: gpt,
// gpt_v2, gpt_v3, ...
func VariantLabels(n int) []string {
	if n <= 0 {
		return nil
	}
	labels := make([]string, 0, n)
	labels = append(labels, "gpt")
	for i := 2; i <= n; i++ {
		labels = append(labels, "gpt_v"+strconv.Itoa(i))
	}
	return labels
}

// UserPrompt builds the single-line drafting prompt from a generation
// request: product name, comment, rating context, then the Достоинства /
// Недостатки / Преимущества sections, with the operator's custom prompt
// appended as additional instructions.
func UserPrompt(req item.GenerateRequest) string {
	var parts []string

	if s := oneline(req.ProductName); s != "" {
		parts = append(parts, s)
	}
	if s := oneline(req.Text); s != "" {
		parts = append(parts, s)
	}
	if s := ratingContext(req.Rating); s != "" {
		parts = append(parts, s)
	}
	if s := oneline(req.Pluses); s != "" {
		parts = append(parts, "Достоинства: "+s)
	}
	if s := oneline(req.Minuses); s != "" {
		parts = append(parts, "Недостатки: "+s)
	}
	if s := joinAdvantages(req.Advantages); s != "" {
		parts = append(parts, "Преимущества: "+s)
	}

	prompt := strings.TrimSpace("ответь на отзыв расширенно " + strings.Join(parts, " "))

	if custom := strings.TrimSpace(req.Prompt); custom != "" {
		prompt += "\n\nДополнительные указания: " + custom
	}
	return prompt
}

// ratingContext steers the tone by star rating. A zero rating (questions)
// contributes nothing.
func ratingContext(rating int) string {
	switch {
	case rating <= 0:
		return ""
	case rating < 3:
		return "оценка низкая, проверь текст: если отзыв позитивный — мягко уточни про оценку; если негативный — извинись и предложи решение"
	case rating == 3:
		return "оценка средняя, поблагодари и спроси, что можно улучшить"
	default:
		return "оценка высокая, обязательно поблагодари за позитив"
	}
}

func oneline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinAdvantages(advantages []string) string {
	var kept []string
	for _, a := range advantages {
		if s := strings.TrimSpace(a); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

// Normalize cleans model output: unified line endings, per-line edge trim,
// blank runs collapsed to a single blank line, outer trim.
func Normalize(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	normalized = strings.Join(lines, "\n")

	for strings.Contains(normalized, "\n\n\n") {
		normalized = strings.ReplaceAll(normalized, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(normalized)
}
