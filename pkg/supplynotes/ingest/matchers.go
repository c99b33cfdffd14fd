package ingest

import (
	"regexp"
	"strings"
)

// Line classification is done by ordered lists of named patterns. Each list
// is evaluated top to bottom and the first pattern that matches decides the
// result, so priority is the position in the list.

// NoteType is the kind of note a header introduces.
type NoteType string

const (
	TypeEmail   NoteType = "EMAIL"
	TypeMeeting NoteType = "MEETING"
	TypeNote    NoteType = "NOTE"
)

// UnknownAuthor is used when a note header names nobody.
const UnknownAuthor = "Unknown"

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// Supplier header shapes: an upper-case run (letters, spaces, slashes,
// ampersands, parentheses, commas), optionally followed by a dash and an
// upper-case status descriptor.
var headerPatterns = []namedPattern{
	{"name-dash-status", regexp.MustCompile(`^([A-Z][A-Z\s/&(),]*?)\s*-\s*([A-Z\s/(),&]+)$`)},
	{"name-only", regexp.MustCompile(`^([A-Z][A-Z\s/&(),]+)$`)},
}

// Note header lead-ins, case-insensitive.
var noteHeaderPatterns = []namedPattern{
	{"email-from", regexp.MustCompile(`(?i)^email from \w+`)},
	{"meeting-notes", regexp.MustCompile(`(?i)^meeting notes`)},
	{"possessive-note", regexp.MustCompile(`(?i)^\w+['’]s note`)},
	{"possessive-email", regexp.MustCompile(`(?i)^\w+['’]s email`)},
	{"note-colon", regexp.MustCompile(`(?i)^note:`)},
}

// Authors are captured from the whole header line, first pattern wins.
var authorPatterns = []namedPattern{
	{"lead-in", regexp.MustCompile(`(?i)(?:email from|meeting notes|note from)\s+(\w+)`)},
	{"possessive", regexp.MustCompile(`(?i)(\w+)['’]s\s+(?:note|email)`)},
}

// Type cues in priority order: a header mentioning both an email and a
// meeting is an EMAIL.
var typeCues = []struct {
	cue string
	typ NoteType
}{
	{"email", TypeEmail},
	{"meeting", TypeMeeting},
	{"note", TypeNote},
}

var (
	parenthesized = regexp.MustCompile(`\(([^)]+)\)`)
	usDate        = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// HeaderMatch is a recognized supplier header line.
type HeaderMatch struct {
	Pattern    string // name of the pattern that matched
	Name       string // raw supplier name as written
	Descriptor string // status descriptor after the dash, if any
}

// MatchSupplierHeader reports whether a line has the supplier-header shape.
func MatchSupplierHeader(line string) (HeaderMatch, bool) {
	line = strings.TrimSpace(line)
	collapsed := strings.Join(strings.Fields(line), " ")
	for _, p := range headerPatterns {
		subject := line
		if p.name == "name-only" {
			subject = collapsed
		}
		m := p.re.FindStringSubmatch(subject)
		if m == nil {
			continue
		}
		hm := HeaderMatch{Pattern: p.name, Name: strings.TrimSpace(m[1])}
		if len(m) > 2 {
			hm.Descriptor = strings.TrimSpace(m[2])
		}
		return hm, true
	}
	return HeaderMatch{}, false
}

// MatchNoteHeader returns the name of the lead-in pattern a line starts with.
func MatchNoteHeader(line string) (string, bool) {
	for _, p := range noteHeaderPatterns {
		if p.re.MatchString(line) {
			return p.name, true
		}
	}
	return "", false
}

// InferNoteType picks the note type from cues in the header text.
func InferNoteType(header string) NoteType {
	lower := strings.ToLower(header)
	for _, c := range typeCues {
		if strings.Contains(lower, c.cue) {
			return c.typ
		}
	}
	return TypeNote
}

// ExtractAuthor returns the author named by a note header, or UnknownAuthor.
func ExtractAuthor(header string) string {
	for _, p := range authorPatterns {
		if m := p.re.FindStringSubmatch(header); m != nil {
			return m[1]
		}
	}
	return UnknownAuthor
}

// ExtractDate returns the normalized date from the first parenthesized part
// of a header, or "" when there is none.
func ExtractDate(header string) string {
	m := parenthesized.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return ParseDate(m[1])
}
