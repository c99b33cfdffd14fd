package supplynotes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cognicore/supplynotes/pkg/supplynotes/identity"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store"
)

// Service ingests supplier notes documents into a store and answers the
// queries downstream consumers need.
type Service struct {
	store    store.Store
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// Options configures a Service
type Options struct {
	Store    store.Store
	Pipeline *ingest.Pipeline
	Logger   *slog.Logger // nil means slog.Default()
}

// New creates a Service with the given dependencies
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    opts.Store,
		pipeline: opts.Pipeline,
		logger:   logger,
	}
}

// Close cleanly shuts down the Service
func (s *Service) Close() error {
	return s.store.Close()
}

// NoteFailure is a note the store refused
type NoteFailure struct {
	NoteID   string
	Supplier string
	Err      error
}

// LoadReport summarizes a load into the store
type LoadReport struct {
	Runs              []ingest.Report
	Suppliers         []identity.Identity
	Notes             []ingest.NoteRecord
	SuppliersInserted int
	NotesStored       int
	Failed            []NoteFailure
}

// Skipped returns the notes every run skipped before storage
func (r LoadReport) Skipped() []ingest.Skip {
	var out []ingest.Skip
	for _, run := range r.Runs {
		out = append(out, run.Skipped...)
	}
	return out
}

// Load runs the pipeline over one document and stores the result.
// Suppliers are insert-or-ignore; a note the store rejects is logged and
// reported in LoadReport.Failed without aborting the load.
func (s *Service) Load(ctx context.Context, doc ingest.Document) (LoadReport, error) {
	report := s.pipeline.Run(doc)
	lr := LoadReport{
		Runs:      []ingest.Report{report},
		Suppliers: report.Suppliers,
		Notes:     report.Notes,
	}
	if err := s.persist(ctx, &lr); err != nil {
		return lr, err
	}
	return lr, nil
}

// LoadFile reads a document from disk and loads it
func (s *Service) LoadFile(ctx context.Context, path string) (LoadReport, error) {
	doc, err := ingest.LoadDocument(path)
	if err != nil {
		return LoadReport{}, err
	}
	return s.Load(ctx, doc)
}

// LoadAll ingests documents in parallel and stores the merged result
func (s *Service) LoadAll(ctx context.Context, docs []ingest.Document) (LoadReport, error) {
	batch, err := IngestAll(ctx, s.pipeline, docs)
	if err != nil {
		return LoadReport{}, err
	}
	lr := LoadReport{
		Runs:      batch.Reports,
		Suppliers: batch.Suppliers,
		Notes:     batch.Notes,
	}
	if err := s.persist(ctx, &lr); err != nil {
		return lr, err
	}
	return lr, nil
}

// Reload clears stored notes and loads the document again from scratch
func (s *Service) Reload(ctx context.Context, doc ingest.Document) (LoadReport, error) {
	if err := s.store.ClearNotes(ctx); err != nil {
		return LoadReport{}, fmt.Errorf("clear notes: %w", err)
	}
	return s.Load(ctx, doc)
}

func (s *Service) persist(ctx context.Context, lr *LoadReport) error {
	// stored names of suppliers an earlier load already created
	known := make(map[string]string)
	for _, ident := range lr.Suppliers {
		inserted, err := s.store.UpsertSupplier(ctx, toStoreSupplier(ident))
		if err != nil {
			return fmt.Errorf("store supplier %s: %w", ident.ID, err)
		}
		if inserted {
			lr.SuppliersInserted++
			continue
		}
		stored, err := s.store.GetSupplier(ctx, ident.ID)
		if err != nil {
			return fmt.Errorf("load supplier %s: %w", ident.ID, err)
		}
		if stored.Name != ident.DisplayName {
			known[ident.ID] = stored.Name
		}
	}

	for i := range lr.Notes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name, ok := known[lr.Notes[i].SupplierID]; ok {
			lr.Notes[i].SupplierName = name
		}
		rec := lr.Notes[i]
		if err := s.store.InsertNote(ctx, toStoreNote(rec)); err != nil {
			s.logger.Warn("failed to store note", "note_id", rec.ID, "supplier", rec.SupplierName, "err", err)
			lr.Failed = append(lr.Failed, NoteFailure{NoteID: rec.ID, Supplier: rec.SupplierName, Err: err})
			continue
		}
		lr.NotesStored++
	}

	for _, run := range lr.Runs {
		if err := s.store.RecordRun(ctx, toStoreRun(run)); err != nil {
			s.logger.Warn("failed to record run", "run_id", run.RunID, "err", err)
		}
	}

	s.logger.Info("notes loaded",
		"suppliers", len(lr.Suppliers),
		"suppliers_inserted", lr.SuppliersInserted,
		"notes", lr.NotesStored,
		"failed", len(lr.Failed))
	return nil
}

// Suppliers lists stored suppliers with note counts
func (s *Service) Suppliers(ctx context.Context) ([]store.SupplierSummary, error) {
	return s.store.ListSuppliers(ctx)
}

// Supplier returns one stored supplier
func (s *Service) Supplier(ctx context.Context, id string) (store.Supplier, error) {
	return s.store.GetSupplier(ctx, id)
}

// Notes returns a supplier's most recent notes
func (s *Service) Notes(ctx context.Context, supplierID string, limit int) ([]store.Note, error) {
	return s.store.NotesBySupplier(ctx, supplierID, limit)
}

// SentimentSummary returns per-supplier sentiment aggregates
func (s *Service) SentimentSummary(ctx context.Context) ([]store.SentimentSummary, error) {
	return s.store.SentimentSummary(ctx)
}

// SentimentTrend returns a supplier's average sentiment per note date
func (s *Service) SentimentTrend(ctx context.Context, supplierID string) ([]store.TrendPoint, error) {
	return s.store.SentimentTrend(ctx, supplierID)
}

// Runs returns recent ingestion runs
func (s *Service) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	return s.store.ListRuns(ctx, limit)
}

func toStoreSupplier(ident identity.Identity) store.Supplier {
	return store.Supplier{
		ID:             ident.ID,
		Name:           ident.DisplayName,
		NormalizedName: ident.NormalizedKey,
		CreatedAt:      ident.CreatedAt,
	}
}

func toStoreNote(rec ingest.NoteRecord) store.Note {
	return store.Note{
		ID:             rec.ID,
		SupplierID:     rec.SupplierID,
		SupplierName:   rec.SupplierName,
		SupplierStatus: rec.SupplierStatus,
		Type:           string(rec.Type),
		Author:         rec.Author,
		Date:           rec.Date,
		Content:        rec.Content,
		Sentiment:      string(rec.Sentiment),
		SentimentScore: rec.SentimentScore,
		Keywords:       rec.Keywords,
		CreatedAt:      rec.CreatedAt,
	}
}

func toStoreRun(r ingest.Report) store.Run {
	return store.Run{
		ID:         r.RunID,
		Document:   r.Document,
		Notes:      len(r.Notes),
		Suppliers:  len(r.Suppliers),
		Skipped:    len(r.Skipped),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
