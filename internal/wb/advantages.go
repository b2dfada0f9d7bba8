package wb

import "strings"

// advantageKeys lists the raw payload keys the marketplace has been seen
// using for product advantage tags, in probe order.
var advantageKeys = []string{
	"advantages",
	"advantagesRu",
	"advantagesRU",
	"advantages_list",
	"advantagesList",
	"prosTags",
	"pros_list",
	"prosList",
	"benefits",
	"tags",
	"bables",
}

// maxTagLen filters the generic "tags" field down to short chip-like labels.
const maxTagLen = 12

// extractAdvantages collects advantage tags from a raw feedback payload.
// Values appear as delimited strings, lists of strings, or lists of maps
// keyed name/title/text. Duplicates are dropped case-insensitively while
// the first-seen casing and order are kept.
func extractAdvantages(raw map[string]any) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, key := range advantageKeys {
		val, ok := raw[key]
		if !ok || val == nil {
			continue
		}

		tagsOnly := key == "tags"

		switch v := val.(type) {
		case string:
			for _, part := range splitAdvantages(v) {
				add(part)
			}
		case []any:
			for _, el := range v {
				switch e := el.(type) {
				case string:
					if tagsOnly && len([]rune(e)) >= maxTagLen {
						continue
					}
					add(e)
				case map[string]any:
					if tagsOnly {
						continue
					}
					for _, field := range []string{"name", "title", "text"} {
						if s, ok := e[field].(string); ok && strings.TrimSpace(s) != "" {
							add(s)
							break
						}
					}
				}
			}
		}
	}

	return out
}

// splitAdvantages splits a delimited advantage string on commas, semicolons,
// and newlines.
func splitAdvantages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
}
