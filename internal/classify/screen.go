package classify

import "strings"

// Keyword screen for inappropriate text. Image-based screening belongs to
// the upload layer, not this service.
var inappropriateKeywords = []string{
	"porn", "xxx", "nude", "naked", "nsfw",
	"erotic", "adult only", "explicit",
	"gore", "torture",
	"racial slur", "hate speech",
}

// ContainsInappropriate reports whether text trips the inappropriate-content
// keyword screen. Matching is on word boundaries where the keyword is a
// single word, substring otherwise.
func ContainsInappropriate(text string) bool {
	lower := strings.ToLower(text)
	fields := make(map[string]bool)
	for _, f := range strings.Fields(lower) {
		fields[strings.Trim(f, ".,!?;:\"'()[]")] = true
	}

	for _, kw := range inappropriateKeywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
		} else if fields[kw] {
			return true
		}
	}
	return false
}
