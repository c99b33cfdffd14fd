package ingest

import (
	"strings"
	"testing"
)

var sep = strings.Repeat("=", 80)

func joinSections(parts ...string) string {
	return strings.Join(parts, "\n"+sep+"\n")
}

func TestSegmentHeaderAndContinuation(t *testing.T) {
	text := joinSections(
		"SUPPLIER PERFORMANCE NOTES\nCompiled by procurement",
		"QUICKFAB INDUSTRIES - CAUTION / HIGH RISK\n\nEmail from Dana (3/5/2022)\nParts late.",
		"Meeting notes (4/1/2022)\nStill late.",
		"STELLAR METALWORKS - GOLD STANDARD\nNote: flawless run",
		"END OF NOTES",
	)

	seg := NewSegmenter(Layout{}).Segment(text)

	if seg.Banners != 2 {
		t.Errorf("banners = %d, want 2", seg.Banners)
	}
	if len(seg.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d: %+v", len(seg.Sections), seg.Sections)
	}

	first := seg.Sections[0]
	if !first.IsHeader || first.SupplierName != "QUICKFAB INDUSTRIES" || first.SupplierStatus != "CAUTION" {
		t.Errorf("unexpected first section: %+v", first)
	}
	if len(first.Lines) != 2 || first.Lines[0] != "Email from Dana (3/5/2022)" {
		t.Errorf("header line should be excluded and blanks dropped: %v", first.Lines)
	}

	cont := seg.Sections[1]
	if cont.IsHeader {
		t.Error("second section should be a continuation")
	}
	if cont.SupplierName != "QUICKFAB INDUSTRIES" || cont.SupplierStatus != "CAUTION" {
		t.Errorf("continuation did not inherit supplier context: %+v", cont)
	}

	if seg.Sections[2].SupplierStatus != "GOLD STANDARD" {
		t.Errorf("status = %q, want GOLD STANDARD", seg.Sections[2].SupplierStatus)
	}
}

func TestSegmentDropsOrphanContinuation(t *testing.T) {
	text := joinSections(
		"Email from Dana (3/5/2022)\nNo supplier yet.",
		"TITANFORGE LLC - EXPERT\nNote: fine",
	)

	seg := NewSegmenter(Layout{}).Segment(text)
	if seg.Orphans != 1 {
		t.Errorf("orphans = %d, want 1", seg.Orphans)
	}
	if len(seg.Sections) != 1 || seg.Sections[0].SupplierName != "TITANFORGE LLC" {
		t.Errorf("unexpected sections %+v", seg.Sections)
	}
}

func TestSegmentStatusTiers(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"ACME - GOLD STANDARD", "GOLD STANDARD"},
		{"ACME - HIGH RISK", "CAUTION"},
		{"ACME - NICHE SPECIALIST", "SPECIALIST"},
		{"ACME - EXPERT SUPPLIER", "EXPERT"},
		{"ACME - PREFERRED", DefaultTier},
		{"EXPERT WELDING", DefaultTier},
		{"ACME - CAUTION / GOLD STANDARD", "GOLD STANDARD"},
	}
	for _, tt := range tests {
		seg := NewSegmenter(Layout{}).Segment(tt.header + "\nNote: x")
		if len(seg.Sections) != 1 {
			t.Fatalf("%q: expected 1 section, got %d", tt.header, len(seg.Sections))
		}
		if got := seg.Sections[0].SupplierStatus; got != tt.want {
			t.Errorf("%q: status = %q, want %q", tt.header, got, tt.want)
		}
	}
}

// The tier is read from the descriptor after the dash only, never from the
// supplier name itself.
func TestSegmentTierIgnoresSupplierName(t *testing.T) {
	seg := NewSegmenter(Layout{}).Segment("GOLD STANDARD METALS\nNote: x\nOn time.")
	if len(seg.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(seg.Sections))
	}
	sec := seg.Sections[0]
	if sec.SupplierName != "GOLD STANDARD METALS" {
		t.Errorf("name = %q", sec.SupplierName)
	}
	if sec.SupplierStatus != DefaultTier {
		t.Errorf("status = %q, want %q", sec.SupplierStatus, DefaultTier)
	}

	seg = NewSegmenter(Layout{}).Segment("GOLD STANDARD METALS - CAUTION\nNote: x\nLate.")
	if got := seg.Sections[0].SupplierStatus; got != "CAUTION" {
		t.Errorf("status = %q, want CAUTION", got)
	}
}

func TestSegmentCRLFAndCustomLayout(t *testing.T) {
	layout := Layout{
		Separator: "----",
		Banners:   []string{"DRAFT"},
		Tiers:     []Tier{{Name: "PREFERRED", Keywords: []string{"PREFERRED"}}},
	}
	text := "DRAFT COPY\r\n----\r\nACME - PREFERRED\r\nNote: ok\r\n----\r\n"

	seg := NewSegmenter(layout).Segment(text)
	if seg.Banners != 1 {
		t.Errorf("banners = %d, want 1", seg.Banners)
	}
	if len(seg.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(seg.Sections))
	}
	if seg.Sections[0].SupplierStatus != "PREFERRED" {
		t.Errorf("status = %q", seg.Sections[0].SupplierStatus)
	}
	if seg.Sections[0].Lines[0] != "Note: ok" {
		t.Errorf("CR not stripped: %q", seg.Sections[0].Lines[0])
	}
}

func TestSegmentEmptyDocument(t *testing.T) {
	seg := NewSegmenter(Layout{}).Segment("")
	if len(seg.Sections) != 0 || seg.Orphans != 0 {
		t.Errorf("empty document produced %+v", seg)
	}
}
