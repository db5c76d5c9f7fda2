package nlp

import (
	"strings"
	"unicode"

	"github.com/misinfoguard/sentinel/internal/textutil"
)

// Language detection works in two passes: script ranges catch Arabic and
// Devanagari outright, then function-word profiles separate the Latin-script
// languages. Anything inconclusive is reported as English.

var profileOrder = []string{"en", "es", "fr", "de"}

var languageProfiles = map[string]map[string]bool{
	"en": {
		"the": true, "and": true, "is": true, "was": true, "are": true,
		"that": true, "this": true, "with": true, "from": true, "have": true,
		"has": true, "will": true, "not": true, "they": true, "their": true,
	},
	"es": {
		"el": true, "la": true, "los": true, "las": true, "una": true,
		"que": true, "con": true, "por": true, "para": true, "como": true,
		"pero": true, "está": true, "son": true, "fue": true, "más": true,
	},
	"fr": {
		"le": true, "les": true, "des": true, "une": true, "est": true,
		"dans": true, "pour": true, "avec": true, "sur": true, "qui": true,
		"pas": true, "sont": true, "était": true, "mais": true, "aux": true,
	},
	"de": {
		"der": true, "die": true, "das": true, "und": true, "ist": true,
		"nicht": true, "ein": true, "eine": true, "mit": true, "für": true,
		"auf": true, "sind": true, "wurde": true, "haben": true, "auch": true,
	},
}

// DetectLanguage guesses the ISO 639-1 code of text, returning "en" when
// nothing can be determined.
func DetectLanguage(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "en"
	}

	if lang := detectByScript(trimmed); lang != "" {
		return lang
	}

	tokens := textutil.Tokens(trimmed)
	if len(tokens) == 0 {
		return "en"
	}

	// Fixed order so a hit-count tie always resolves the same way, with
	// English winning any tie it is part of.
	best := "en"
	bestHits := 0
	for _, lang := range profileOrder {
		profile := languageProfiles[lang]
		hits := 0
		for _, tok := range tokens {
			if profile[tok] {
				hits++
			}
		}
		if hits > bestHits {
			best = lang
			bestHits = hits
		}
	}
	return best
}

func detectByScript(text string) string {
	arabic, devanagari, letters := 0, 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		}
	}
	if letters == 0 {
		return ""
	}
	if arabic*2 > letters {
		return "ar"
	}
	if devanagari*2 > letters {
		return "hi"
	}
	return ""
}
