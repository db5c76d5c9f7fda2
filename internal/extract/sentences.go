package extract

import (
	"strings"
	"unicode"
)

// sentence is a span of the input text with its byte offsets, used to
// attribute pre-computed entities to the sentence they fall in.
type sentence struct {
	text  string
	start int
	end   int
}

// Abbreviations that end with a period but do not end a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "gov": true, "sen": true,
	"rep": true, "gen": true, "u.s": true, "u.k": true, "e.g": true,
	"i.e": true, "no": true, "approx": true,
}

// splitSentences breaks text on sentence-final punctuation. It keeps byte
// offsets so callers can map entities back onto sentences, and avoids
// splitting on decimals and common abbreviations.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0
	runes := []rune(text)
	pos := 0 // byte position of runes[i]

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		size := len(string(r))
		if isSentenceEnd(r) && !midToken(runes, i) {
			end := pos + size
			// Swallow closing quotes and brackets after the terminator.
			j := i + 1
			for j < len(runes) && (runes[j] == '"' || runes[j] == '\'' || runes[j] == ')' || runes[j] == ']') {
				end += len(string(runes[j]))
				j++
			}
			if j >= len(runes) || unicode.IsSpace(runes[j]) {
				if s := strings.TrimSpace(text[start:end]); s != "" {
					out = append(out, sentence{text: s, start: start, end: end})
				}
				start = end
			}
		}
		pos += size
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, sentence{text: s, start: start, end: len(text)})
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '؟'
}

// midToken reports whether the terminator at runes[i] sits inside a number
// or directly after an abbreviation.
func midToken(runes []rune, i int) bool {
	if runes[i] != '.' {
		return false
	}
	// Decimal point: digit on both sides.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return true
	}
	// Abbreviation: walk back over the preceding word.
	j := i - 1
	for j >= 0 && (unicode.IsLetter(runes[j]) || runes[j] == '.') {
		j--
	}
	word := strings.ToLower(strings.TrimSuffix(string(runes[j+1:i]), "."))
	return abbreviations[word]
}
