package ingest

import "strings"

// Section is one fragment of a document between two separator lines.
// Continuation sections carry the supplier context inherited from the most
// recent header section.
type Section struct {
	Index          int      // position among the document's raw segments
	IsHeader       bool     // first line is a supplier header
	HeaderLine     string   // the header line itself, header sections only
	SupplierName   string   // raw supplier name, as written in the header
	SupplierStatus string   // status tier
	Lines          []string // non-blank lines after the header, trimmed
}

// Segmentation is the output of one Segment call.
type Segmentation struct {
	Sections []Section
	// Orphans counts continuation sections dropped because no supplier
	// header preceded them.
	Orphans int
	// Banners counts discarded preamble/postscript sections.
	Banners int
}

// supplierContext is the header state carried from one section to the next.
type supplierContext struct {
	name   string
	status string
}

// Segmenter splits notes documents into supplier-attributed sections.
type Segmenter struct {
	layout Layout
}

// NewSegmenter creates a segmenter. Zero-valued layout fields take their
// DefaultLayout values.
func NewSegmenter(layout Layout) *Segmenter {
	return &Segmenter{layout: layout.withDefaults()}
}

// Layout returns the effective layout.
func (s *Segmenter) Layout() Layout {
	return s.layout
}

// Segment splits text on the separator line, discards empty and banner
// segments, classifies the rest as header or continuation sections and
// attaches supplier context to each.
func (s *Segmenter) Segment(text string) Segmentation {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out     Segmentation
		current *supplierContext
	)

	for i, raw := range strings.Split(text, s.layout.Separator) {
		body := strings.TrimSpace(raw)
		if body == "" {
			continue
		}
		if s.layout.isBanner(body) {
			out.Banners++
			continue
		}

		lines := nonBlankLines(body)
		if len(lines) == 0 {
			continue
		}

		if hm, ok := MatchSupplierHeader(lines[0]); ok {
			current = &supplierContext{
				name:   hm.Name,
				status: s.layout.tierFor(hm.Descriptor),
			}
			out.Sections = append(out.Sections, Section{
				Index:          i,
				IsHeader:       true,
				HeaderLine:     lines[0],
				SupplierName:   current.name,
				SupplierStatus: current.status,
				Lines:          lines[1:],
			})
			continue
		}

		if current == nil {
			out.Orphans++
			continue
		}
		out.Sections = append(out.Sections, Section{
			Index:          i,
			SupplierName:   current.name,
			SupplierStatus: current.status,
			Lines:          lines,
		})
	}

	return out
}

func nonBlankLines(body string) []string {
	raw := strings.Split(body, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
