// Package storetest holds the behavior every store.Store implementation
// must share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store"
)

// Run exercises a fresh store from newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, st store.Store)
	}{
		{"SupplierInsertOrIgnore", testSupplierInsertOrIgnore},
		{"GetSupplierNotFound", testGetSupplierNotFound},
		{"NotesRoundTrip", testNotesRoundTrip},
		{"NotesRequireSupplier", testNotesRequireSupplier},
		{"DuplicateNoteID", testDuplicateNoteID},
		{"NotesLimit", testNotesLimit},
		{"ListSuppliersCounts", testListSuppliersCounts},
		{"ClearNotes", testClearNotes},
		{"SentimentSummary", testSentimentSummary},
		{"SentimentSummaryOneRowPerSupplier", testSentimentSummaryOneRowPerSupplier},
		{"SentimentTrend", testSentimentTrend},
		{"Runs", testRuns},
		{"RunsOrderedByStart", testRunsOrderedByStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStore(t)
			t.Cleanup(func() { st.Close() })
			tt.fn(t, st)
		})
	}
}

var created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func supplier(id, name, key string) store.Supplier {
	return store.Supplier{ID: id, Name: name, NormalizedName: key, CreatedAt: created}
}

func note(id, supplierID, name, date, label string, score float64) store.Note {
	return store.Note{
		ID:             id,
		SupplierID:     supplierID,
		SupplierName:   name,
		SupplierStatus: "STANDARD",
		Type:           "NOTE",
		Author:         "Unknown",
		Date:           date,
		Content:        "content of " + id,
		Sentiment:      label,
		SentimentScore: score,
		Keywords:       []string{"late"},
		CreatedAt:      created,
	}
}

func seed(t *testing.T, st store.Store, sups ...store.Supplier) {
	t.Helper()
	for _, s := range sups {
		_, err := st.UpsertSupplier(context.Background(), s)
		require.NoError(t, err)
	}
}

func testSupplierInsertOrIgnore(t *testing.T, st store.Store) {
	ctx := context.Background()

	inserted, err := st.UpsertSupplier(ctx, supplier("a1b2c3d4", "QuickFab Industries", "quickfab industries"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = st.UpsertSupplier(ctx, supplier("a1b2c3d4", "Renamed", "quickfab industries"))
	require.NoError(t, err)
	assert.False(t, inserted, "second write for an id must be ignored")

	got, err := st.GetSupplier(ctx, "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "QuickFab Industries", got.Name)
	assert.Equal(t, "quickfab industries", got.NormalizedName)
	assert.True(t, got.CreatedAt.Equal(created))
}

func testGetSupplierNotFound(t *testing.T, st store.Store) {
	_, err := st.GetSupplier(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
}

func testNotesRoundTrip(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("s1", "Stellar Metalworks", "stellar metalworks"))

	n := note("01HX0000000000000000000001", "s1", "Stellar Metalworks", "2022-03-05", "NEGATIVE", -0.2)
	n.Keywords = []string{"late", "quality"}
	require.NoError(t, st.InsertNote(ctx, n))

	notes, err := st.NotesBySupplier(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	got := notes[0]
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.Content, got.Content)
	assert.Equal(t, []string{"late", "quality"}, got.Keywords)
	assert.InDelta(t, -0.2, got.SentimentScore, 1e-9)
	assert.Equal(t, "NEGATIVE", got.Sentiment)
	assert.True(t, got.CreatedAt.Equal(created))
}

func testNotesRequireSupplier(t *testing.T, st store.Store) {
	err := st.InsertNote(context.Background(), note("n1", "ghost", "Ghost", "", "NEUTRAL", 0))
	assert.Error(t, err, "note for an unknown supplier must be rejected")
}

func testDuplicateNoteID(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("s1", "Stellar Metalworks", "stellar metalworks"))

	require.NoError(t, st.InsertNote(ctx, note("n1", "s1", "Stellar Metalworks", "", "NEUTRAL", 0)))
	assert.Error(t, st.InsertNote(ctx, note("n1", "s1", "Stellar Metalworks", "", "NEUTRAL", 0)))
}

func testNotesLimit(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("s1", "Stellar Metalworks", "stellar metalworks"))

	dates := []string{"2021-01-01", "2023-06-30", "2022-12-01", ""}
	for i, d := range dates {
		require.NoError(t, st.InsertNote(ctx, note(string(rune('a'+i)), "s1", "Stellar Metalworks", d, "NEUTRAL", 0)))
	}

	notes, err := st.NotesBySupplier(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "2023-06-30", notes[0].Date)
	assert.Equal(t, "2022-12-01", notes[1].Date)

	other, err := st.NotesBySupplier(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func testListSuppliersCounts(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st,
		supplier("s2", "Stellar Metalworks", "stellar metalworks"),
		supplier("s1", "Apex Manufacturing Inc", "apex"),
	)
	require.NoError(t, st.InsertNote(ctx, note("n1", "s1", "Apex Manufacturing Inc", "", "NEUTRAL", 0)))
	require.NoError(t, st.InsertNote(ctx, note("n2", "s1", "Apex Manufacturing Inc", "", "NEUTRAL", 0)))

	list, err := st.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apex Manufacturing Inc", list[0].Name)
	assert.Equal(t, 2, list[0].NoteCount)
	assert.Equal(t, "Stellar Metalworks", list[1].Name)
	assert.Equal(t, 0, list[1].NoteCount)
}

func testClearNotes(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("s1", "Stellar Metalworks", "stellar metalworks"))
	require.NoError(t, st.InsertNote(ctx, note("n1", "s1", "Stellar Metalworks", "", "NEUTRAL", 0)))

	require.NoError(t, st.ClearNotes(ctx))

	notes, err := st.NotesBySupplier(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = st.GetSupplier(ctx, "s1")
	assert.NoError(t, err, "suppliers survive ClearNotes")

	// IDs are free again after a clear
	assert.NoError(t, st.InsertNote(ctx, note("n1", "s1", "Stellar Metalworks", "", "NEUTRAL", 0)))
}

func testSentimentSummary(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st,
		supplier("q", "QuickFab Industries", "quickfab industries"),
		supplier("s", "Stellar Metalworks", "stellar metalworks"),
	)
	for _, n := range []store.Note{
		note("n1", "q", "QuickFab Industries", "", "NEGATIVE", -0.2),
		note("n2", "q", "QuickFab Industries", "", "NEUTRAL", 0),
		note("n3", "q", "QuickFab Industries", "", "NEGATIVE", -0.1),
		note("n4", "s", "Stellar Metalworks", "", "POSITIVE", 0.3),
	} {
		require.NoError(t, st.InsertNote(ctx, n))
	}

	sum, err := st.SentimentSummary(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 2)

	assert.Equal(t, "Stellar Metalworks", sum[0].SupplierName)
	assert.Equal(t, 1, sum[0].Positive)
	assert.InDelta(t, 0.3, sum[0].AverageScore, 1e-9)

	assert.Equal(t, "QuickFab Industries", sum[1].SupplierName)
	assert.Equal(t, 3, sum[1].Total)
	assert.Equal(t, 2, sum[1].Negative)
	assert.Equal(t, 1, sum[1].Neutral)
	assert.InDelta(t, -0.1, sum[1].AverageScore, 1e-9)
}

func testSentimentSummaryOneRowPerSupplier(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("acme", "Acme Widgets Co", "acme widgets"))

	// a later load saw another spelling of the same key
	_, err := st.UpsertSupplier(ctx, supplier("acme", "Acme Widgets", "acme widgets"))
	require.NoError(t, err)
	require.NoError(t, st.InsertNote(ctx, note("n1", "acme", "Acme Widgets Co", "", "POSITIVE", 0.1)))
	require.NoError(t, st.InsertNote(ctx, note("n2", "acme", "Acme Widgets", "", "NEGATIVE", -0.1)))

	sum, err := st.SentimentSummary(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 1)
	assert.Equal(t, "Acme Widgets Co", sum[0].SupplierName)
	assert.Equal(t, 2, sum[0].Total)
	assert.Equal(t, 1, sum[0].Positive)
	assert.Equal(t, 1, sum[0].Negative)
}

func testSentimentTrend(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed(t, st, supplier("q", "QuickFab Industries", "quickfab industries"))
	for _, n := range []store.Note{
		note("n1", "q", "QuickFab Industries", "2022-03-05", "NEGATIVE", -0.2),
		note("n2", "q", "QuickFab Industries", "2022-03-05", "POSITIVE", 0.1),
		note("n3", "q", "QuickFab Industries", "2021-11-30", "NEGATIVE", -0.3),
		note("n4", "q", "QuickFab Industries", "", "NEUTRAL", 0),
	} {
		require.NoError(t, st.InsertNote(ctx, n))
	}

	trend, err := st.SentimentTrend(ctx, "q")
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2021-11-30", trend[0].Date)
	assert.Equal(t, 1, trend[0].Notes)
	assert.Equal(t, "2022-03-05", trend[1].Date)
	assert.Equal(t, 2, trend[1].Notes)
	assert.InDelta(t, -0.05, trend[1].AverageScore, 0.011)
}

func testRuns(t *testing.T, st store.Store) {
	ctx := context.Background()
	first := store.Run{ID: "run-1", Document: "a.txt", Notes: 3, Suppliers: 2, StartedAt: created, FinishedAt: created.Add(time.Second)}
	second := store.Run{ID: "run-2", Document: "b.txt", Notes: 1, Suppliers: 1, Skipped: 1, StartedAt: created.Add(time.Hour), FinishedAt: created.Add(time.Hour)}
	require.NoError(t, st.RecordRun(ctx, first))
	require.NoError(t, st.RecordRun(ctx, second))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.True(t, runs[1].FinishedAt.Equal(first.FinishedAt))
}

func testRunsOrderedByStart(t *testing.T, st store.Store) {
	ctx := context.Background()
	whole := store.Run{ID: "whole", StartedAt: created, FinishedAt: created}
	later := store.Run{ID: "later", StartedAt: created.Add(100 * time.Millisecond), FinishedAt: created.Add(time.Second)}
	require.NoError(t, st.RecordRun(ctx, later))
	require.NoError(t, st.RecordRun(ctx, whole))

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "later", runs[0].ID)
	assert.Equal(t, "whole", runs[1].ID)
	assert.True(t, runs[0].StartedAt.Equal(later.StartedAt))
}
