package sentiment

import (
	"testing"

	"github.com/cognicore/supplynotes/pkg/supplynotes/lexicon"
)

func newDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(lexicon.Default())
}

func TestAnalyzeLateQualityIssues(t *testing.T) {
	a := newDefaultAnalyzer()
	res := a.Analyze("Parts arrived 2 weeks late. Quality issues reported.")

	if res.Label != LabelNegative {
		t.Errorf("label = %s, want NEGATIVE", res.Label)
	}
	if res.Positive != 0 {
		t.Errorf("positive count = %d, want 0", res.Positive)
	}
	if res.Negative < 2 {
		t.Errorf("negative count = %d, want >= 2", res.Negative)
	}
	if res.Score != -0.2 {
		t.Errorf("score = %v, want -0.2", res.Score)
	}
	if !containsAll(res.Keywords, "late", "quality") {
		t.Errorf("keywords = %v, want late and quality", res.Keywords)
	}
}

func TestAnalyzePhraseClaimsShorterTerm(t *testing.T) {
	a := newDefaultAnalyzer()
	res := a.Analyze("Zero defects across the last three lots, excellent work")

	if res.Positive != 2 || res.Negative != 0 {
		t.Errorf("counts = +%d/-%d, want +2/-0", res.Positive, res.Negative)
	}
	if res.Label != LabelPositive {
		t.Errorf("label = %s, want POSITIVE", res.Label)
	}
}

func TestAnalyzeWordBoundaries(t *testing.T) {
	a := newDefaultAnalyzer()

	// "badge" and "lately" must not count as "bad" or "late"
	res := a.Analyze("Badge access was updated lately")
	if res.Negative != 0 {
		t.Errorf("negative count = %d, want 0", res.Negative)
	}
	if res.Label != LabelNeutral {
		t.Errorf("label = %s, want NEUTRAL", res.Label)
	}
}

func TestAnalyzeMultiWordAcrossWhitespace(t *testing.T) {
	a := newDefaultAnalyzer()
	res := a.Analyze("They were   NOT\thappy with the finish")
	if res.Negative != 1 {
		t.Errorf("negative count = %d, want 1", res.Negative)
	}
}

func TestAnalyzeRepeatedOccurrences(t *testing.T) {
	a := newDefaultAnalyzer()
	res := a.Analyze("late, late and late again")
	if res.Negative != 3 {
		t.Errorf("negative count = %d, want 3", res.Negative)
	}
	if res.Score != -0.3 {
		t.Errorf("score = %v, want -0.3", res.Score)
	}
}

func TestAnalyzeScoreSaturates(t *testing.T) {
	a := newDefaultAnalyzer()
	text := "excellent excellent excellent excellent excellent excellent " +
		"excellent excellent excellent excellent excellent excellent"
	res := a.Analyze(text)
	if res.Score != 1 {
		t.Errorf("score = %v, want 1", res.Score)
	}
	if res.Label != LabelPositive {
		t.Errorf("label = %s, want POSITIVE", res.Label)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	res := newDefaultAnalyzer().Analyze("")
	if res.Label != LabelNeutral || res.Score != 0 || len(res.Keywords) != 0 {
		t.Errorf("unexpected result for empty content: %+v", res)
	}
}

func TestKeywordCap(t *testing.T) {
	a := newDefaultAnalyzer()
	res := a.Analyze("quality defects rework rejection perfect excellent late early delivery price cost")
	if len(res.Keywords) != MaxKeywords {
		t.Fatalf("keywords = %v, want %d entries", res.Keywords, MaxKeywords)
	}
	want := []string{"quality", "defects", "rework", "rejection", "perfect"}
	for i, kw := range want {
		if res.Keywords[i] != kw {
			t.Errorf("keyword %d = %q, want %q", i, res.Keywords[i], kw)
		}
	}
}

func TestKeywordsDeduplicatedAcrossCategories(t *testing.T) {
	lex := lexicon.New()
	lex.AddCategory("quality", []string{"premium", "defects"})
	lex.AddCategory("pricing", []string{"premium", "price"})
	a := NewAnalyzer(lex)

	res := a.Analyze("premium price, no defects")
	want := []string{"premium", "defects", "price"}
	if len(res.Keywords) != len(want) {
		t.Fatalf("keywords = %v, want %v", res.Keywords, want)
	}
	for i := range want {
		if res.Keywords[i] != want[i] {
			t.Errorf("keyword %d = %q, want %q", i, res.Keywords[i], want[i])
		}
	}
}

func TestKeywordsAreSubstringMatches(t *testing.T) {
	res := newDefaultAnalyzer().Analyze("Platelets")
	if !containsAll(res.Keywords, "late") {
		t.Errorf("keywords = %v, want substring match on late", res.Keywords)
	}
}

func TestSentimentThresholdLaw(t *testing.T) {
	a := newDefaultAnalyzer()
	inputs := []string{
		"",
		"excellent but late",
		"terrible, terrible quality issues and poor packaging",
		"reliable and dependable partner, great pricing",
		"standard delivery, acceptable finish",
		"zero defects but delivery issues and a wrong invoice",
		"quality quality quality issues",
	}
	for _, in := range inputs {
		res := a.Analyze(in)
		if res.Score > 0 && res.Label == LabelNegative {
			t.Errorf("%q: positive score with NEGATIVE label", in)
		}
		if res.Score < 0 && res.Label == LabelPositive {
			t.Errorf("%q: negative score with POSITIVE label", in)
		}
		if res.Score == 0 && res.Label != LabelNeutral {
			t.Errorf("%q: zero score with %s label", in, res.Label)
		}
		if !Consistent(res.Label, res.Score) {
			t.Errorf("%q: Consistent(%s, %v) = false", in, res.Label, res.Score)
		}
		if len(res.Keywords) > MaxKeywords {
			t.Errorf("%q: %d keywords exceeds cap", in, len(res.Keywords))
		}
	}
}

func TestScoreClamp(t *testing.T) {
	tests := []struct {
		pos, neg int
		want     float64
	}{
		{0, 0, 0},
		{3, 1, 0.2},
		{0, 25, -1},
		{40, 0, 1},
	}
	for _, tt := range tests {
		if got := Score(tt.pos, tt.neg); got != tt.want {
			t.Errorf("Score(%d, %d) = %v, want %v", tt.pos, tt.neg, got, tt.want)
		}
	}
}

func containsAll(list []string, want ...string) bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
