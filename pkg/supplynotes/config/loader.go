package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/supplynotes/pkg/supplynotes/identity"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/lexicon"
	"github.com/cognicore/supplynotes/pkg/supplynotes/sentiment"
)

// File names looked up by FromDir.
const (
	LexiconFile = "lexicon.yaml"
	AliasesFile = "aliases.yaml"
	LayoutFile  = "layout.yaml"
)

// Loader loads all configuration files and constructs components.
// Empty paths select the built-in defaults.
type Loader struct {
	LexiconPath string
	AliasesPath string
	LayoutPath  string
}

// Components holds all loaded configuration components
type Components struct {
	Lexicon   *lexicon.Lexicon
	Analyzer  *sentiment.Analyzer
	Layout    ingest.Layout
	Segmenter *ingest.Segmenter
	Extractor *ingest.Extractor
	Aliases   map[string]string
}

// FromDir returns a loader for the configuration files present in dir.
// Files that do not exist are left to their defaults.
func FromDir(dir string) Loader {
	pick := func(name string) string {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			return ""
		}
		return p
	}
	return Loader{
		LexiconPath: pick(LexiconFile),
		AliasesPath: pick(AliasesFile),
		LayoutPath:  pick(LayoutFile),
	}
}

// Load reads all configuration files and returns initialized components.
// Every failure wraps ErrInvalidConfig; an unreadable file also wraps
// fs.ErrNotExist when that is the cause.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Load lexicon
	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, invalid("load lexicon", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.Default()
	}
	comp.Analyzer = sentiment.NewAnalyzer(comp.Lexicon)

	// Load aliases
	if l.AliasesPath != "" {
		a, err := LoadAliases(l.AliasesPath)
		if err != nil {
			return nil, invalid("load aliases", err)
		}
		comp.Aliases = a.Aliases
	} else {
		comp.Aliases = identity.DefaultAliases()
	}

	// Load layout
	layout := ingest.DefaultLayout()
	if l.LayoutPath != "" {
		fileLayout, err := LoadLayout(l.LayoutPath)
		if err != nil {
			return nil, invalid("load layout", err)
		}
		layout = fileLayout.ingestLayout()
	}
	comp.Segmenter = ingest.NewSegmenter(layout)
	comp.Extractor = ingest.NewExtractor(layout)
	comp.Layout = comp.Segmenter.Layout()

	return comp, nil
}

// Pipeline assembles an ingestion pipeline from the loaded components.
func (c *Components) Pipeline() *ingest.Pipeline {
	return ingest.NewPipeline(c.Segmenter, c.Extractor, c.Analyzer, c.Aliases)
}

func invalid(what string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w: %w", what, internalerr.ErrInvalidConfig, err)
	}
	return fmt.Errorf("%s: %w: %v", what, internalerr.ErrInvalidConfig, err)
}
