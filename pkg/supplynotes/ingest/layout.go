package ingest

import "strings"

// DefaultSeparator is the full-width rule that divides a notes document into
// sections.
var DefaultSeparator = strings.Repeat("=", 80)

// DefaultTier is the status assigned when a header names no known tier.
const DefaultTier = "STANDARD"

// Tier maps header descriptor keywords to a status tier.
type Tier struct {
	Name     string
	Keywords []string
}

// Layout describes the textual conventions of a notes document: how it is
// divided, which sections and lines are boilerplate, and how header status
// descriptors map to tiers.
type Layout struct {
	Separator   string
	Banners     []string // sections containing any of these are discarded
	Markers     []string // lines starting with any of these are skipped
	Tiers       []Tier   // checked in order, first match wins
	DefaultTier string
}

// DefaultLayout returns the layout of the supplier performance notes export.
func DefaultLayout() Layout {
	return Layout{
		Separator: DefaultSeparator,
		Banners:   []string{"SUPPLIER PERFORMANCE NOTES", "END OF NOTES"},
		Markers:   []string{"**NOTE:", "================"},
		Tiers: []Tier{
			{Name: "GOLD STANDARD", Keywords: []string{"GOLD STANDARD"}},
			{Name: "CAUTION", Keywords: []string{"CAUTION", "HIGH RISK"}},
			{Name: "SPECIALIST", Keywords: []string{"SPECIALIST", "NICHE SPECIALIST"}},
			{Name: "EXPERT", Keywords: []string{"EXPERT"}},
		},
		DefaultTier: DefaultTier,
	}
}

// withDefaults fills zero-valued fields from DefaultLayout.
func (l Layout) withDefaults() Layout {
	def := DefaultLayout()
	if l.Separator == "" {
		l.Separator = def.Separator
	}
	if l.Banners == nil {
		l.Banners = def.Banners
	}
	if l.Markers == nil {
		l.Markers = def.Markers
	}
	if l.Tiers == nil {
		l.Tiers = def.Tiers
	}
	if l.DefaultTier == "" {
		l.DefaultTier = def.DefaultTier
	}
	return l
}

// tierFor returns the first tier whose keyword occurs in the descriptor.
func (l Layout) tierFor(descriptor string) string {
	for _, tier := range l.Tiers {
		for _, kw := range tier.Keywords {
			if kw != "" && strings.Contains(descriptor, kw) {
				return tier.Name
			}
		}
	}
	return l.DefaultTier
}

func (l Layout) isBanner(section string) bool {
	for _, b := range l.Banners {
		if b != "" && strings.Contains(section, b) {
			return true
		}
	}
	return false
}

func (l Layout) isMarker(line string) bool {
	for _, m := range l.Markers {
		if m != "" && strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}
