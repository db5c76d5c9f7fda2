package extract

import (
	"strings"

	"github.com/misinfoguard/sentinel/internal/textutil"
)

// Language-specific factual verbs. Unknown languages fall back to English.
var factualVerbs = map[string][]string{
	"en": {"is", "are", "was", "were", "has", "have", "will", "states", "shows", "proves", "reveals"},
	"es": {"es", "son", "fue", "fueron", "tiene", "tienen", "será", "muestra", "prueba", "revela"},
	"fr": {"est", "sont", "était", "étaient", "a", "ont", "sera", "montre", "prouve", "révèle"},
	"de": {"ist", "sind", "war", "waren", "hat", "haben", "wird", "zeigt", "beweist"},
	"hi": {"है", "हैं", "था", "थे", "दिखाता", "साबित"},
	"ar": {"هو", "هي", "كان", "كانت", "يظهر", "يثبت"},
}

// Opinion markers across the supported languages. Any hit disqualifies a
// sentence from being a factual claim.
var opinionWords = []string{
	"think", "believe", "feel", "opinion", "maybe", "perhaps",
	"creo", "pienso", "opino", "quizás", // Spanish
	"pense", "crois", "peut-être", // French
	"denke", "glaube", "meinung", "vielleicht", // German
}

// isFactual reports whether a sentence reads as a verifiable factual claim:
// it carries a digit or a factual verb, is not a question, and carries no
// opinion marker.
func isFactual(text, lang string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "?") || strings.HasSuffix(trimmed, "؟") {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, word := range opinionWords {
		if strings.Contains(lower, word) {
			return false
		}
	}

	if textutil.HasDigit(trimmed) {
		return true
	}

	verbs, ok := factualVerbs[lang]
	if !ok {
		verbs = factualVerbs["en"]
	}
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(lower) {
		tokens[strings.Trim(tok, ".,!;:\"'()[]")] = true
	}
	for _, verb := range verbs {
		if tokens[verb] {
			return true
		}
	}
	return false
}
