package store

import (
	"context"
	"time"
)

// Store is the persistence collaborator for ingested supplier notes
type Store interface {
	Close() error

	// Suppliers
	UpsertSupplier(ctx context.Context, s Supplier) (bool, error)
	GetSupplier(ctx context.Context, id string) (Supplier, error)
	ListSuppliers(ctx context.Context) ([]SupplierSummary, error)

	// Notes
	InsertNote(ctx context.Context, n Note) error
	ClearNotes(ctx context.Context) error
	NotesBySupplier(ctx context.Context, supplierID string, limit int) ([]Note, error)

	// Sentiment
	SentimentSummary(ctx context.Context) ([]SentimentSummary, error)
	SentimentTrend(ctx context.Context, supplierID string) ([]TrendPoint, error)

	// Runs
	RecordRun(ctx context.Context, r Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Supplier represents a stored supplier identity. Rows are insert-or-ignore:
// the first write for an ID is kept.
type Supplier struct {
	ID             string
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}

// SupplierSummary is a supplier with the number of notes attributed to it
type SupplierSummary struct {
	Supplier
	NoteCount int
}

// Note represents a stored supplier note
type Note struct {
	ID             string
	SupplierID     string
	SupplierName   string
	SupplierStatus string
	Type           string
	Author         string
	Date           string
	Content        string
	Sentiment      string
	SentimentScore float64
	Keywords       []string
	CreatedAt      time.Time
}

// SentimentSummary aggregates note sentiment for one supplier
type SentimentSummary struct {
	SupplierName string
	Total        int
	Positive     int
	Negative     int
	Neutral      int
	AverageScore float64 // rounded to 2 decimals
}

// TrendPoint is the average sentiment of one supplier's notes on one date
type TrendPoint struct {
	Date         string
	AverageScore float64
	Notes        int
}

// Run records one ingestion run
type Run struct {
	ID         string
	Document   string
	Notes      int
	Suppliers  int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// DefaultNoteLimit is used by NotesBySupplier when limit <= 0
const DefaultNoteLimit = 10
