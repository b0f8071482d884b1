package processor

import "strings"

// MatchKeywords reports whether content contains any of the triggers,
// case-insensitive substring match. An empty trigger list matches everything;
// per-post rules with no keywords mean "gate on reply_to_all only".
func MatchKeywords(content string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
