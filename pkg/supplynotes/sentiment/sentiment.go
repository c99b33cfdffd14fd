package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/supplynotes/pkg/supplynotes/lexicon"
)

// Label is the tone classification of a note.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
)

const (
	// ScoreDivisor maps the raw positive-minus-negative count onto [-1, 1].
	// It is a fixed calibration constant, not normalized by note length.
	ScoreDivisor = 10.0

	// MaxKeywords caps the keyword list of a single note.
	MaxKeywords = 5
)

// Result is the outcome of analyzing one note body.
type Result struct {
	Label    Label
	Score    float64
	Keywords []string

	// Hit counts after overlap resolution
	Positive int
	Negative int
	Neutral  int
}

// Analyzer scores note text against a lexicon.
// It holds only compiled, read-only state and is safe for concurrent use.
type Analyzer struct {
	matchers   []termMatcher
	categories []lexicon.Category
}

type termMatcher struct {
	term     string
	polarity lexicon.Polarity
	re       *regexp.Regexp
}

// hit is one lexicon occurrence in the text, as a byte span.
type hit struct {
	start, end int
	polarity   lexicon.Polarity
}

// NewAnalyzer compiles the lexicon's sentiment terms into word-boundary
// matchers. Multi-word entries accept any whitespace run between words.
func NewAnalyzer(lex *lexicon.Lexicon) *Analyzer {
	a := &Analyzer{categories: lex.Categories()}
	for _, p := range []lexicon.Polarity{lexicon.Positive, lexicon.Negative, lexicon.Neutral} {
		for _, term := range lex.Terms(p) {
			a.matchers = append(a.matchers, termMatcher{
				term:     term,
				polarity: p,
				re:       compileTerm(term),
			})
		}
	}
	return a
}

func compileTerm(term string) *regexp.Regexp {
	words := strings.Fields(term)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b` + strings.Join(quoted, `\s+`) + `\b`)
}

// Analyze returns the sentiment label, bounded score and capped keyword list
// for the given content.
func (a *Analyzer) Analyze(content string) Result {
	lower := strings.ToLower(content)
	res := a.count(lower)
	res.Score = Score(res.Positive, res.Negative)
	res.Label = Classify(res.Positive, res.Negative)
	res.Keywords = a.keywords(lower)
	return res
}

// count finds every lexicon occurrence and resolves overlaps greedily:
// longer spans claim their text first, ties go to the earliest start.
// A shorter entry inside a claimed span is not counted again.
func (a *Analyzer) count(lower string) Result {
	var hits []hit
	for _, m := range a.matchers {
		for _, loc := range m.re.FindAllStringIndex(lower, -1) {
			hits = append(hits, hit{start: loc[0], end: loc[1], polarity: m.polarity})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		li, lj := hits[i].end-hits[i].start, hits[j].end-hits[j].start
		if li != lj {
			return li > lj
		}
		return hits[i].start < hits[j].start
	})

	var res Result
	claimed := make([]hit, 0, len(hits))
	for _, h := range hits {
		if overlapsAny(h, claimed) {
			continue
		}
		claimed = append(claimed, h)
		switch h.polarity {
		case lexicon.Positive:
			res.Positive++
		case lexicon.Negative:
			res.Negative++
		case lexicon.Neutral:
			res.Neutral++
		}
	}
	return res
}

func overlapsAny(h hit, claimed []hit) bool {
	for _, c := range claimed {
		if h.start < c.end && c.start < h.end {
			return true
		}
	}
	return false
}

// keywords scans categories in declaration order and reports each term found
// as a substring. A term shared by several categories is reported once.
func (a *Analyzer) keywords(lower string) []string {
	out := make([]string, 0, MaxKeywords)
	seen := make(map[string]struct{})
	for _, cat := range a.categories {
		for _, term := range cat.Terms {
			if _, dup := seen[term]; dup {
				continue
			}
			if strings.Contains(lower, term) {
				seen[term] = struct{}{}
				out = append(out, term)
				if len(out) == MaxKeywords {
					return out
				}
			}
		}
	}
	return out
}

// Score converts hit counts into a value clamped to [-1, 1].
func Score(positive, negative int) float64 {
	raw := float64(positive-negative) / ScoreDivisor
	return math.Max(-1, math.Min(1, raw))
}

// Classify labels a note by comparing hit counts.
func Classify(positive, negative int) Label {
	switch {
	case positive > negative:
		return LabelPositive
	case negative > positive:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Consistent reports whether a score's sign agrees with its label.
func Consistent(label Label, score float64) bool {
	switch {
	case score > 0:
		return label == LabelPositive
	case score < 0:
		return label == LabelNegative
	default:
		return label == LabelNeutral
	}
}
