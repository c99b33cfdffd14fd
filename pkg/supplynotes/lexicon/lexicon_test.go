package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLexiconNew(t *testing.T) {
	lex := New()
	if lex == nil {
		t.Fatal("New() returned nil")
	}

	stats := lex.Stats()
	if stats.Positive != 0 || stats.Negative != 0 || stats.Categories != 0 {
		t.Errorf("New lexicon should be empty, got %+v", stats)
	}
}

func TestLexiconDefault(t *testing.T) {
	lex := Default()
	stats := lex.Stats()

	if stats.Positive != 23 {
		t.Errorf("expected 23 positive terms, got %d", stats.Positive)
	}
	if stats.Negative != 23 {
		t.Errorf("expected 23 negative terms, got %d", stats.Negative)
	}
	if stats.Neutral != 10 {
		t.Errorf("expected 10 neutral terms, got %d", stats.Neutral)
	}

	cats := lex.Categories()
	want := []string{"quality", "delivery", "pricing"}
	if len(cats) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(cats))
	}
	for i, name := range want {
		if cats[i].Name != name {
			t.Errorf("category %d = %q, want %q", i, cats[i].Name, name)
		}
	}
}

func TestLexiconAddTermsNormalizes(t *testing.T) {
	lex := New()
	lex.AddTerms(Negative, "Late", "  WEEKS   late ", "late", "")

	got := lex.Terms(Negative)
	if len(got) != 2 {
		t.Fatalf("expected 2 terms after dedup, got %v", got)
	}
	if got[0] != "late" || got[1] != "weeks late" {
		t.Errorf("unexpected terms %v", got)
	}
}

func TestLexiconAddCategoryReplaceKeepsPosition(t *testing.T) {
	lex := New()
	lex.AddCategory("quality", []string{"defects"})
	lex.AddCategory("delivery", []string{"late"})
	lex.AddCategory("Quality", []string{"rework", "Rejection"})

	cats := lex.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Name != "quality" {
		t.Errorf("replaced category moved: %v", cats)
	}
	if len(cats[0].Terms) != 2 || cats[0].Terms[1] != "rejection" {
		t.Errorf("unexpected quality terms %v", cats[0].Terms)
	}
}

func TestLexiconLoadFromYAML(t *testing.T) {
	yaml := `sentiment:
  positive: [excellent, Zero Defects]
  negative: [late, quality issues]
  neutral: [standard]
keywords:
  - category: pricing
    terms: [price, cost]
  - category: quality
    terms: [quality]
`
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	if got := lex.Terms(Positive); len(got) != 2 || got[1] != "zero defects" {
		t.Errorf("positive terms = %v", got)
	}
	cats := lex.Categories()
	if len(cats) != 2 || cats[0].Name != "pricing" || cats[1].Name != "quality" {
		t.Errorf("category order not preserved: %v", cats)
	}
}

func TestLexiconLoadFromYAMLMissingCategoryName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := "keywords:\n  - terms: [price]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromYAML(path); err == nil {
		t.Error("expected error for unnamed category")
	}
}

func TestLexiconLoadFromYAMLMissingFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
