// Package segment splits raw multi-article text (typically OCR output) into
// distinct topical segments.
package segment

import (
	"regexp"
	"strings"

	"github.com/misinfoguard/sentinel/internal/textutil"
)

const (
	// PageBreak is the marker OCR emits between physical pages.
	PageBreak = "\f"

	minHeadlineLength = 20
	minFragmentChars  = 50
	minSegmentWords   = 30
)

var blankRunRe = regexp.MustCompile(`\n[ \t]*\n[ \t]*\n[ \t]*\n+`)

// Splitter splits text into topical segments and merges near-duplicates.
type Splitter struct {
	mergeThreshold float64
	stopWords      map[string]bool
}

// New creates a splitter. Adjacent segments whose topic similarity reaches
// mergeThreshold are merged back together.
func New(mergeThreshold float64) *Splitter {
	return &Splitter{
		mergeThreshold: mergeThreshold,
		stopWords:      textutil.DefaultStopWords,
	}
}

// Split breaks text into distinct-topic segments. Input order is preserved;
// a text that cannot be split is returned as a single segment unmodified.
func (s *Splitter) Split(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	parts := s.rawSplit(normalized)
	if len(parts) <= 1 {
		return []string{text}
	}

	parts = s.mergeSimilar(parts)
	parts = s.foldShort(parts)

	if len(parts) == 2 && s.sameTopic(parts[0], parts[1]) {
		parts = []string{parts[0] + "\n\n" + parts[1]}
	}
	if len(parts) == 0 {
		return []string{text}
	}
	return parts
}

// rawSplit applies the physical boundaries in priority order: page breaks,
// then runs of blank lines, then all-caps headline lines.
func (s *Splitter) rawSplit(text string) []string {
	if strings.Contains(text, PageBreak) {
		return cleanParts(strings.Split(text, PageBreak), 0)
	}

	parts := cleanParts(blankRunRe.Split(text, -1), 0)
	if len(parts) > 1 {
		return parts
	}

	return cleanParts(splitOnHeadlines(text), minFragmentChars)
}

// splitOnHeadlines treats long all-caps lines as article boundaries, keeping
// the headline with the text that follows it.
func splitOnHeadlines(text string) []string {
	lines := strings.Split(text, "\n")
	var parts []string
	var current []string

	for _, line := range lines {
		if isHeadline(line) && len(current) > 0 {
			parts = append(parts, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, "\n"))
	}
	return parts
}

func isHeadline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < minHeadlineLength {
		return false
	}
	hasLetter := false
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// mergeSimilar merges adjacent segments that read as the same topic.
func (s *Splitter) mergeSimilar(parts []string) []string {
	merged := []string{parts[0]}
	for _, part := range parts[1:] {
		last := merged[len(merged)-1]
		if s.sameTopic(last, part) {
			merged[len(merged)-1] = last + "\n\n" + part
		} else {
			merged = append(merged, part)
		}
	}
	return merged
}

// foldShort appends segments under the word minimum to the previous valid
// segment so no tiny fragment survives on its own.
func (s *Splitter) foldShort(parts []string) []string {
	var kept []string
	for _, part := range parts {
		if textutil.WordCount(part) < minSegmentWords && len(kept) > 0 {
			kept[len(kept)-1] = kept[len(kept)-1] + "\n\n" + part
			continue
		}
		kept = append(kept, part)
	}
	return kept
}

// sameTopic compares segments over capitalized and numeric tokens. Two
// segments with no such tokens at all are treated as the same topic.
func (s *Splitter) sameTopic(a, b string) bool {
	setA := textutil.TopicTokenSet(a, s.stopWords)
	setB := textutil.TopicTokenSet(b, s.stopWords)
	if len(setA) == 0 && len(setB) == 0 {
		return true
	}
	return textutil.Jaccard(setA, setB) >= s.mergeThreshold
}

func cleanParts(parts []string, minChars int) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || len(p) < minChars {
			continue
		}
		out = append(out, p)
	}
	return out
}
