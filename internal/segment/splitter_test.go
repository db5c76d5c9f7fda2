package segment

import (
	"strings"
	"testing"
)

const articleEconomy = `The Central Bank of Norway raised interest rates on Thursday,
citing persistent inflation across the Nordic economies. Analysts at Oslo
Capital said the move was expected after consumer prices rose 4.2 percent in
the latest quarterly report released by the statistics bureau.`

const articleSports = `Brazilian striker Ronaldo Gomes scored twice as Santos beat
Flamengo in the cup final on Sunday evening. The match drew a record crowd at
the Maracana stadium, and supporters celebrated through the night across Rio
de Janeiro after the final whistle blew.`

func TestSplit_SingleSegmentUnmodified(t *testing.T) {
	s := New(0.3)

	got := s.Split(articleEconomy)
	if len(got) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(got))
	}
	if got[0] != articleEconomy {
		t.Error("Expected unsplittable text to be returned unmodified")
	}
}

func TestSplit_PageBreak(t *testing.T) {
	s := New(0.3)

	got := s.Split(articleEconomy + "\f" + articleSports)
	if len(got) != 2 {
		t.Fatalf("Expected 2 segments, got %d: %q", len(got), got)
	}
	if !strings.Contains(got[0], "Central Bank") {
		t.Errorf("Expected first segment to hold the economy article, got %q", got[0])
	}
	if !strings.Contains(got[1], "Ronaldo Gomes") {
		t.Errorf("Expected second segment to hold the sports article, got %q", got[1])
	}
}

func TestSplit_BlankLineRuns(t *testing.T) {
	s := New(0.3)

	got := s.Split(articleEconomy + "\n\n\n\n" + articleSports)
	if len(got) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(got))
	}
}

func TestSplit_DoubleNewlineIsNotABoundary(t *testing.T) {
	s := New(0.3)

	// An ordinary paragraph break must not split the text
	got := s.Split(articleEconomy + "\n\n" + articleSports)
	if len(got) != 1 {
		t.Fatalf("Expected paragraph break to be kept in one segment, got %d", len(got))
	}
}

func TestSplit_Headlines(t *testing.T) {
	s := New(0.3)

	text := "NORWAY RAISES INTEREST RATES\n" + articleEconomy +
		"\nSANTOS WINS CUP FINAL IN RIO\n" + articleSports
	got := s.Split(text)
	if len(got) != 2 {
		t.Fatalf("Expected 2 segments, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "SANTOS WINS") {
		t.Errorf("Expected the headline to stay with its article, got %q", got[1])
	}
}

func TestSplit_MergesSameTopic(t *testing.T) {
	s := New(0.3)

	continuation := `The Central Bank of Norway also signalled further increases,
and Oslo Capital analysts revised their inflation forecast for the Nordic
economies upward. Consumer prices in Norway remain the bank's central concern
heading into the next quarterly report, the bureau noted.`

	got := s.Split(articleEconomy + "\f" + continuation)
	if len(got) != 1 {
		t.Fatalf("Expected same-topic pages to merge into 1 segment, got %d", len(got))
	}
	if !strings.Contains(got[0], "signalled further increases") {
		t.Error("Expected merged segment to contain both pages")
	}
}

func TestSplit_MergedOutputIsStable(t *testing.T) {
	s := New(0.3)

	continuation := `The Central Bank of Norway also signalled further increases,
and Oslo Capital analysts revised their inflation forecast for the Nordic
economies upward. Consumer prices in Norway remain the bank's central concern
heading into the next quarterly report, the bureau noted.`

	first := s.Split(articleEconomy + "\f" + continuation)
	if len(first) != 1 {
		t.Fatalf("Expected same-topic pages to merge into 1 segment, got %d", len(first))
	}

	// Re-splitting the merged segment must return it unchanged.
	second := s.Split(first[0])
	if len(second) != 1 {
		t.Fatalf("Expected re-split of a merged segment to stay 1 segment, got %d", len(second))
	}
	if second[0] != first[0] {
		t.Errorf("Expected re-split to return the segment unchanged, got %q", second[0])
	}
}

func TestSplit_FoldsShortFragments(t *testing.T) {
	s := New(0.3)

	fragment := "Page 3 of 12"
	got := s.Split(articleEconomy + "\f" + fragment + "\f" + articleSports)
	for _, seg := range got {
		if strings.TrimSpace(seg) == fragment {
			t.Fatal("Expected tiny fragment to be folded into a neighbor")
		}
	}
}

func TestSplit_OrderPreserved(t *testing.T) {
	s := New(0.3)

	got := s.Split(articleSports + "\f" + articleEconomy)
	if len(got) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(got))
	}
	if !strings.Contains(got[0], "Ronaldo Gomes") {
		t.Error("Expected input order to be preserved")
	}
}

func TestSplit_EmptyPagesDropped(t *testing.T) {
	s := New(0.3)

	got := s.Split("\f\f" + articleEconomy + "\f   \f")
	if len(got) != 1 {
		t.Fatalf("Expected 1 segment after dropping empty pages, got %d", len(got))
	}
}
