package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store"
)

// Store is an in-memory implementation of store.Store for tests.
// It enforces the same constraints as the SQLite store: note IDs are unique
// and notes must reference a stored supplier.
type Store struct {
	mu        sync.RWMutex
	suppliers map[string]store.Supplier
	notes     []store.Note
	noteIDs   map[string]struct{}
	runs      []store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		suppliers: make(map[string]store.Supplier),
		noteIDs:   make(map[string]struct{}),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertSupplier inserts a supplier unless its ID is already present.
func (s *Store) UpsertSupplier(ctx context.Context, sup store.Supplier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[sup.ID]; ok {
		return false, nil
	}
	s.suppliers[sup.ID] = sup
	return true, nil
}

// GetSupplier returns a supplier by ID.
func (s *Store) GetSupplier(ctx context.Context, id string) (store.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sup, ok := s.suppliers[id]; ok {
		return sup, nil
	}
	return store.Supplier{}, fmt.Errorf("supplier %s: %w", id, internalerr.ErrNotFound)
}

// ListSuppliers returns suppliers with note counts, ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]store.SupplierSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, n := range s.notes {
		counts[n.SupplierID]++
	}

	out := make([]store.SupplierSummary, 0, len(s.suppliers))
	for id, sup := range s.suppliers {
		out = append(out, store.SupplierSummary{Supplier: sup, NoteCount: counts[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// InsertNote stores a note.
func (s *Store) InsertNote(ctx context.Context, n store.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[n.SupplierID]; !ok {
		return fmt.Errorf("note %s: unknown supplier %s", n.ID, n.SupplierID)
	}
	if _, dup := s.noteIDs[n.ID]; dup {
		return fmt.Errorf("note %s: duplicate id", n.ID)
	}
	s.noteIDs[n.ID] = struct{}{}
	s.notes = append(s.notes, copyNote(n))
	return nil
}

// ClearNotes removes all notes.
func (s *Store) ClearNotes(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = nil
	s.noteIDs = make(map[string]struct{})
	return nil
}

// NotesBySupplier returns a supplier's notes, latest date first.
func (s *Store) NotesBySupplier(ctx context.Context, supplierID string, limit int) ([]store.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultNoteLimit
	}

	var out []store.Note
	for _, n := range s.notes {
		if n.SupplierID == supplierID {
			out = append(out, copyNote(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SentimentSummary aggregates sentiment per supplier, best average first.
func (s *Store) SentimentSummary(ctx context.Context) ([]store.SentimentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		sum   store.SentimentSummary
		total float64
	}
	bySupplier := make(map[string]*acc)
	var order []string
	for _, n := range s.notes {
		a, ok := bySupplier[n.SupplierID]
		if !ok {
			a = &acc{sum: store.SentimentSummary{SupplierName: s.suppliers[n.SupplierID].Name}}
			bySupplier[n.SupplierID] = a
			order = append(order, n.SupplierID)
		}
		a.sum.Total++
		a.total += n.SentimentScore
		switch n.Sentiment {
		case "POSITIVE":
			a.sum.Positive++
		case "NEGATIVE":
			a.sum.Negative++
		case "NEUTRAL":
			a.sum.Neutral++
		}
	}

	out := make([]store.SentimentSummary, 0, len(order))
	for _, id := range order {
		a := bySupplier[id]
		a.sum.AverageScore = round2(a.total / float64(a.sum.Total))
		out = append(out, a.sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].SupplierName < out[j].SupplierName
	})
	return out, nil
}

// SentimentTrend returns the average score per dated note day.
func (s *Store) SentimentTrend(ctx context.Context, supplierID string) ([]store.TrendPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, n := range s.notes {
		if n.SupplierID != supplierID || n.Date == "" {
			continue
		}
		totals[n.Date] += n.SentimentScore
		counts[n.Date]++
	}

	out := make([]store.TrendPoint, 0, len(counts))
	for date, c := range counts {
		out = append(out, store.TrendPoint{
			Date:         date,
			AverageScore: round2(totals[date] / float64(c)),
			Notes:        c,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// RecordRun stores a run summary.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, r)
	return nil
}

// ListRuns returns runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyNote(n store.Note) store.Note {
	if n.Keywords != nil {
		n.Keywords = append([]string(nil), n.Keywords...)
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ store.Store = (*Store)(nil)
