package ingest

import "strings"

// Draft is a note as read from the document, before sentiment analysis and
// identity resolution.
type Draft struct {
	Header         string // the note-header line that opened the draft
	Lead           string // name of the matched lead-in pattern
	Type           NoteType
	Author         string
	Date           string // YYYY-MM-DD, the raw parenthesized text, or ""
	Content        string
	SupplierName   string
	SupplierStatus string
}

// Extractor turns the lines of one supplier section into note drafts.
type Extractor struct {
	layout Layout
}

// NewExtractor creates an extractor. Zero-valued layout fields take their
// DefaultLayout values.
func NewExtractor(layout Layout) *Extractor {
	return &Extractor{layout: layout.withDefaults()}
}

// extraction is the accumulator threaded through one Extract pass. open is
// set when a note header is seen and cleared when the note is emitted.
type extraction struct {
	supplierName   string
	supplierStatus string
	open           *Draft
	drafts         []Draft
}

func (e *extraction) start(header, lead string) {
	e.emit()
	e.open = &Draft{
		Header:         header,
		Lead:           lead,
		Type:           InferNoteType(header),
		Author:         ExtractAuthor(header),
		Date:           ExtractDate(header),
		SupplierName:   e.supplierName,
		SupplierStatus: e.supplierStatus,
	}
}

func (e *extraction) appendLine(line string) {
	if e.open == nil {
		return
	}
	if e.open.Content == "" {
		e.open.Content = line
		return
	}
	e.open.Content += " " + line
}

func (e *extraction) emit() {
	if e.open == nil {
		return
	}
	e.drafts = append(e.drafts, *e.open)
	e.open = nil
}

// Extract walks lines in order. A note-header line closes the open draft and
// starts a new one; any other line is appended to the open draft. Lines
// before the first header are ignored. Drafts with no content lines are
// still returned; callers decide whether to keep them.
func (x *Extractor) Extract(lines []string, supplierName, supplierStatus string) []Draft {
	st := &extraction{supplierName: supplierName, supplierStatus: supplierStatus}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || x.layout.isMarker(line) {
			continue
		}
		if lead, ok := MatchNoteHeader(line); ok {
			st.start(line, lead)
			continue
		}
		st.appendLine(line)
	}
	st.emit()

	return st.drafts
}
