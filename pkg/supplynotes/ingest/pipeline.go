package ingest

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/supplynotes/pkg/supplynotes/identity"
	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/sentiment"
)

// NoteRecord is a finalized, attributable note.
type NoteRecord struct {
	ID             string // ULID, unique within and across runs
	SupplierID     string
	SupplierName   string // display name of the resolved identity
	SupplierStatus string
	Type           NoteType
	Author         string
	Date           string
	Content        string
	Sentiment      sentiment.Label
	SentimentScore float64
	Keywords       []string
	CreatedAt      time.Time
}

// Skip records a note that failed to finalize. The run continues without it.
type Skip struct {
	Index    int // position of the draft within the run
	Supplier string
	Header   string
	Err      error
}

// Report is the result of one ingestion run.
type Report struct {
	RunID      string
	Document   string
	Notes      []NoteRecord
	Suppliers  []identity.Identity
	Skipped    []Skip
	StartedAt  time.Time
	FinishedAt time.Time

	Sections       int // sections attributed to a supplier
	OrphanSections int // continuation sections with no supplier context
	EmptyNotes     int // note headers without any content, dropped
	BannerSections int
}

// errEmptyBody marks drafts that are dropped rather than reported.
var errEmptyBody = errors.New("note has no content")

// Pipeline orchestrates the full ingestion flow:
// segmentation, note extraction, sentiment/keywords, then identity resolution
type Pipeline struct {
	segmenter *Segmenter
	extractor *Extractor
	analyzer  *sentiment.Analyzer
	aliases   map[string]string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline creates an ingestion pipeline with the given components.
// aliases is the raw-header to display-name table handed to every run's
// resolver.
func NewPipeline(segmenter *Segmenter, extractor *Extractor, analyzer *sentiment.Analyzer, aliases map[string]string) *Pipeline {
	return &Pipeline{
		segmenter: segmenter,
		extractor: extractor,
		analyzer:  analyzer,
		aliases:   aliases,
		logger:    slog.Default(),
		now:       time.Now,
	}
}

// SetLogger assigns the logger used for skipped notes and dropped sections.
func (p *Pipeline) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	p.logger = l
}

// SetClock replaces the time source for CreatedAt stamps.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// run is the per-invocation state. Nothing in it outlives Run.
type run struct {
	report   *Report
	resolver *identity.Resolver
	entropy  io.Reader
	logger   *slog.Logger
}

// Run ingests one complete document from scratch. Every call owns a fresh
// resolver, so identities never leak between runs. Per-note failures are
// collected in Report.Skipped and never abort the run.
func (p *Pipeline) Run(doc Document) Report {
	runID := uuid.NewString()
	report := Report{
		RunID:     runID,
		Document:  doc.Name,
		StartedAt: p.now().UTC(),
	}

	resolver := identity.NewResolver(p.aliases)
	resolver.SetClock(p.now)

	r := &run{
		report:   &report,
		resolver: resolver,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		logger:   p.logger.With("run_id", runID, "document", doc.Name),
	}

	seg := p.segmenter.Segment(doc.Text)
	report.OrphanSections = seg.Orphans
	report.BannerSections = seg.Banners
	report.Sections = len(seg.Sections)
	if seg.Orphans > 0 {
		r.logger.Debug("dropped sections without supplier context", "count", seg.Orphans)
	}

	index := 0
	for _, section := range seg.Sections {
		drafts := p.extractor.Extract(section.Lines, section.SupplierName, section.SupplierStatus)
		for _, d := range drafts {
			rec, err := p.finalizeSafe(r, d)
			switch {
			case errors.Is(err, errEmptyBody):
				report.EmptyNotes++
			case err != nil:
				report.Skipped = append(report.Skipped, Skip{
					Index:    index,
					Supplier: d.SupplierName,
					Header:   d.Header,
					Err:      err,
				})
				r.logger.Warn("skipping note", "index", index, "supplier", d.SupplierName, "header", d.Header, "err", err)
			default:
				report.Notes = append(report.Notes, rec)
			}
			index++
		}
	}

	report.Suppliers = resolver.ListAll()
	report.FinishedAt = p.now().UTC()
	r.logger.Info("ingestion finished",
		"notes", len(report.Notes),
		"suppliers", len(report.Suppliers),
		"skipped", len(report.Skipped),
		"empty", report.EmptyNotes)

	return report
}

// Process runs the pipeline over raw text.
func (p *Pipeline) Process(text string) Report {
	return p.Run(Document{Name: "inline", Text: text})
}

// finalizeSafe turns a panic while finalizing one draft into an error so the
// rest of the document is still processed.
func (p *Pipeline) finalizeSafe(r *run, d Draft) (rec NoteRecord, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("finalize note: panic: %v: %w", v, internalerr.ErrInvariant)
		}
	}()
	return p.finalize(r, d)
}

// finalize attaches identity, sentiment and keywords to a draft and checks
// the record invariants.
func (p *Pipeline) finalize(r *run, d Draft) (NoteRecord, error) {
	if d.Content == "" {
		return NoteRecord{}, errEmptyBody
	}

	res := p.analyzer.Analyze(d.Content)
	if !sentiment.Consistent(res.Label, res.Score) {
		return NoteRecord{}, fmt.Errorf("score %.2f disagrees with label %s: %w", res.Score, res.Label, internalerr.ErrInvariant)
	}
	if len(res.Keywords) > sentiment.MaxKeywords {
		return NoteRecord{}, fmt.Errorf("%d keywords: %w", len(res.Keywords), internalerr.ErrInvariant)
	}

	// Resolve last so a supplier only enters the registry with a note.
	ident, err := r.resolver.Resolve(d.SupplierName)
	if err != nil {
		return NoteRecord{}, err
	}

	now := p.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), r.entropy)
	if err != nil {
		return NoteRecord{}, fmt.Errorf("note id: %w", err)
	}

	return NoteRecord{
		ID:             id.String(),
		SupplierID:     ident.ID,
		SupplierName:   ident.DisplayName,
		SupplierStatus: d.SupplierStatus,
		Type:           d.Type,
		Author:         d.Author,
		Date:           d.Date,
		Content:        d.Content,
		Sentiment:      res.Label,
		SentimentScore: res.Score,
		Keywords:       res.Keywords,
		CreatedAt:      now,
	}, nil
}
