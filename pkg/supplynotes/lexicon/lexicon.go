package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Polarity tags a sentiment term list.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	Neutral  Polarity = "neutral"
)

// Category is a named list of domain keywords (quality, delivery, pricing).
// Terms keep their declaration order; keyword extraction reports matches in
// that order.
type Category struct {
	Name  string
	Terms []string
}

// Lexicon stores the fixed vocabulary used for rule-based scoring:
// - Sentiment terms: positive, negative and neutral words or phrases
// - Keyword categories: ordered domain term lists
//
// All entries are stored lowercase. A Lexicon is built once and then only
// read, so it can be shared between concurrent ingestion runs.
type Lexicon struct {
	terms      map[Polarity][]string
	categories []Category
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		terms: make(map[Polarity][]string),
	}
}

// Default returns the built-in supplier-notes lexicon.
func Default() *Lexicon {
	lex := New()
	lex.AddTerms(Positive,
		"excellent", "perfect", "outstanding", "reliable", "good", "great", "best",
		"premium", "quality", "flawless", "accurate", "competitive", "solid",
		"dependable", "trust", "worth", "amazing", "spectacular", "unmatched",
		"delivered early", "zero defects", "never missed", "zero rework",
	)
	lex.AddTerms(Negative,
		"late", "delayed", "poor", "terrible", "bad", "issues", "problems",
		"failed", "rejected", "defects", "unacceptable", "mediocre", "disaster",
		"complained", "leaked", "wrong", "unusable", "gamble", "regret",
		"weeks late", "quality issues", "delivery issues", "not happy",
	)
	lex.AddTerms(Neutral,
		"standard", "fair", "acceptable", "fine", "okay", "usual", "normal",
		"consistent", "default", "average",
	)
	lex.AddCategory("quality", []string{"quality", "defects", "rework", "rejection", "perfect", "excellent"})
	lex.AddCategory("delivery", []string{"late", "early", "delivery", "deadline", "on time", "delayed"})
	lex.AddCategory("pricing", []string{"price", "cost", "expensive", "cheap", "premium", "competitive"})
	return lex
}

// LoadFromYAML loads sentiment terms and keyword categories from a YAML file.
//
// Expected format:
//
//	sentiment:
//	  positive: [excellent, zero defects]
//	  negative: [late, quality issues]
//	  neutral:  [standard]
//	keywords:
//	  - category: quality
//	    terms: [quality, defects]
//	  - category: delivery
//	    terms: [late, on time]
//
// Keyword categories are a list so their order survives decoding.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Sentiment struct {
			Positive []string `yaml:"positive"`
			Negative []string `yaml:"negative"`
			Neutral  []string `yaml:"neutral"`
		} `yaml:"sentiment"`
		Keywords []struct {
			Category string   `yaml:"category"`
			Terms    []string `yaml:"terms"`
		} `yaml:"keywords"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	lex := New()
	lex.AddTerms(Positive, doc.Sentiment.Positive...)
	lex.AddTerms(Negative, doc.Sentiment.Negative...)
	lex.AddTerms(Neutral, doc.Sentiment.Neutral...)
	for _, kw := range doc.Keywords {
		if strings.TrimSpace(kw.Category) == "" {
			return nil, fmt.Errorf("keyword category without a name in %s", path)
		}
		lex.AddCategory(kw.Category, kw.Terms)
	}

	return lex, nil
}

// AddTerms appends sentiment terms under the given polarity.
// Terms are lowercased and trimmed; blanks and repeats are ignored.
func (l *Lexicon) AddTerms(p Polarity, terms ...string) {
	existing := l.terms[p]
	seen := make(map[string]bool, len(existing)+len(terms))
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range terms {
		t = normalizeTerm(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		existing = append(existing, t)
	}
	l.terms[p] = existing
}

// AddCategory appends a keyword category. Adding a category that already
// exists replaces its terms but keeps its original position.
func (l *Lexicon) AddCategory(name string, terms []string) {
	name = strings.ToLower(strings.TrimSpace(name))
	normalized := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = normalizeTerm(t); t != "" {
			normalized = append(normalized, t)
		}
	}

	for i, c := range l.categories {
		if c.Name == name {
			l.categories[i].Terms = normalized
			return
		}
	}
	l.categories = append(l.categories, Category{Name: name, Terms: normalized})
}

// Terms returns the sentiment terms for a polarity in insertion order.
func (l *Lexicon) Terms(p Polarity) []string {
	return l.terms[p]
}

// Categories returns keyword categories in declaration order.
func (l *Lexicon) Categories() []Category {
	return l.categories
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	total := 0
	for _, c := range l.categories {
		total += len(c.Terms)
	}
	return Stats{
		Positive:     len(l.terms[Positive]),
		Negative:     len(l.terms[Negative]),
		Neutral:      len(l.terms[Neutral]),
		Categories:   len(l.categories),
		KeywordTerms: total,
	}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Positive     int
	Negative     int
	Neutral      int
	Categories   int
	KeywordTerms int // Total number of keyword terms across all categories
}

func normalizeTerm(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}
