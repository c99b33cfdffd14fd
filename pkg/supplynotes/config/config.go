package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
)

// Aliases represents the supplier alias table
type Aliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases loads the raw-header to display-name table from a YAML file
func LoadAliases(path string) (*Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, err
	}

	for raw, display := range a.Aliases {
		if strings.TrimSpace(raw) == "" || strings.TrimSpace(display) == "" {
			return nil, fmt.Errorf("blank alias entry %q: %q", raw, display)
		}
	}

	return &a, nil
}

// Layout represents the document layout configuration
type Layout struct {
	Separator   string   `yaml:"separator"`
	Banners     []string `yaml:"banners"`
	Markers     []string `yaml:"markers"`
	Tiers       []Tier   `yaml:"tiers"`
	DefaultTier string   `yaml:"default_tier"`
}

// Tier is one status tier and the descriptor keywords that select it
type Tier struct {
	Tier     string   `yaml:"tier"`
	Keywords []string `yaml:"keywords"`
}

// LoadLayout loads document layout conventions from a YAML file
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}

	for i, t := range l.Tiers {
		if strings.TrimSpace(t.Tier) == "" {
			return nil, fmt.Errorf("tier %d has no name", i)
		}
		if len(t.Keywords) == 0 {
			return nil, fmt.Errorf("tier %q has no keywords", t.Tier)
		}
	}

	return &l, nil
}

// ingestLayout converts the file representation. Omitted fields stay zero so
// the ingest defaults apply.
func (l *Layout) ingestLayout() ingest.Layout {
	out := ingest.Layout{
		Separator:   l.Separator,
		Banners:     l.Banners,
		Markers:     l.Markers,
		DefaultTier: l.DefaultTier,
	}
	if len(l.Tiers) > 0 {
		out.Tiers = make([]ingest.Tier, len(l.Tiers))
		for i, t := range l.Tiers {
			out.Tiers[i] = ingest.Tier{Name: t.Tier, Keywords: t.Keywords}
		}
	}
	return out
}
