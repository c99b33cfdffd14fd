package ingest

import "testing"

func TestExtractSingleNote(t *testing.T) {
	lines := []string{
		"Email from Dana (3/5/2022)",
		"Parts arrived 2 weeks late.",
		"Quality issues reported.",
	}

	drafts := NewExtractor(Layout{}).Extract(lines, "QUICKFAB INDUSTRIES", "CAUTION")
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}

	d := drafts[0]
	if d.Type != TypeEmail || d.Author != "Dana" || d.Date != "2022-03-05" {
		t.Errorf("unexpected header fields: %+v", d)
	}
	if d.Content != "Parts arrived 2 weeks late. Quality issues reported." {
		t.Errorf("content = %q", d.Content)
	}
	if d.SupplierName != "QUICKFAB INDUSTRIES" || d.SupplierStatus != "CAUTION" {
		t.Errorf("supplier context not attached: %+v", d)
	}
	if d.Lead != "email-from" {
		t.Errorf("lead = %q", d.Lead)
	}
}

func TestExtractMultipleNotesInOrder(t *testing.T) {
	lines := []string{
		"Meeting notes (11/30/2021)",
		"Discussed lead times.",
		"Mike's note (Q3 2022)",
		"Pricing is competitive.",
		"Note: follow up",
	}

	drafts := NewExtractor(Layout{}).Extract(lines, "ACME", DefaultTier)
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}

	want := []struct {
		typ     NoteType
		author  string
		date    string
		content string
	}{
		{TypeMeeting, UnknownAuthor, "2021-11-30", "Discussed lead times."},
		{TypeNote, "Mike", "Q3 2022", "Pricing is competitive."},
		{TypeNote, UnknownAuthor, "", ""},
	}
	for i, w := range want {
		d := drafts[i]
		if d.Type != w.typ || d.Author != w.author || d.Date != w.date || d.Content != w.content {
			t.Errorf("draft %d = %+v, want %+v", i, d, w)
		}
	}
}

func TestExtractIgnoresPreambleAndMarkers(t *testing.T) {
	lines := []string{
		"Some loose text before any note.",
		"**NOTE: internal use only",
		"Note: vendor visit",
		"================",
		"Went well.",
	}

	drafts := NewExtractor(Layout{}).Extract(lines, "ACME", DefaultTier)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].Content != "Went well." {
		t.Errorf("content = %q", drafts[0].Content)
	}
}

func TestExtractNoHeaders(t *testing.T) {
	drafts := NewExtractor(Layout{}).Extract([]string{"just text", "more text"}, "ACME", DefaultTier)
	if len(drafts) != 0 {
		t.Errorf("expected no drafts, got %+v", drafts)
	}
}
