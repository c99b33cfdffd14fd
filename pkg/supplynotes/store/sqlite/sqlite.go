package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode and foreign keys enabled
// and creates the schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	// Notes must reference a stored supplier
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS suppliers (
	supplier_id TEXT PRIMARY KEY,
	supplier_name TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS supplier_notes (
	id TEXT PRIMARY KEY,
	supplier_id TEXT NOT NULL,
	supplier_name TEXT NOT NULL,
	supplier_status TEXT,
	note_type TEXT,
	author TEXT,
	date TEXT,
	content TEXT,
	sentiment TEXT,
	sentiment_score REAL,
	keywords TEXT,
	created_at TEXT,
	FOREIGN KEY(supplier_id) REFERENCES suppliers(supplier_id)
);

CREATE INDEX IF NOT EXISTS idx_supplier_notes_supplier ON supplier_notes(supplier_id, date);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id TEXT PRIMARY KEY,
	document TEXT,
	notes INTEGER NOT NULL,
	suppliers INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertSupplier inserts a supplier unless its ID is already stored.
// It reports whether a row was written.
func (s *sqliteStore) UpsertSupplier(ctx context.Context, sup store.Supplier) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO suppliers (supplier_id, supplier_name, normalized_name, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(supplier_id) DO NOTHING;
`, sup.ID, sup.Name, sup.NormalizedName, formatTime(sup.CreatedAt))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetSupplier retrieves a supplier by ID
func (s *sqliteStore) GetSupplier(ctx context.Context, id string) (store.Supplier, error) {
	var (
		sup     store.Supplier
		created string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT supplier_id, supplier_name, normalized_name, created_at
FROM suppliers WHERE supplier_id = ?
`, id).Scan(&sup.ID, &sup.Name, &sup.NormalizedName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Supplier{}, fmt.Errorf("supplier %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Supplier{}, err
	}
	sup.CreatedAt = parseTime(created)
	return sup, nil
}

// ListSuppliers returns every supplier with its note count, ordered by name
func (s *sqliteStore) ListSuppliers(ctx context.Context) ([]store.SupplierSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.supplier_id, s.supplier_name, s.normalized_name, s.created_at, COUNT(sn.id)
FROM suppliers s
LEFT JOIN supplier_notes sn ON s.supplier_id = sn.supplier_id
GROUP BY s.supplier_id
ORDER BY s.supplier_name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SupplierSummary
	for rows.Next() {
		var (
			sum     store.SupplierSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.NormalizedName, &created, &sum.NoteCount); err != nil {
			return nil, err
		}
		sum.CreatedAt = parseTime(created)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// InsertNote stores one note. Keywords are kept as a JSON array.
func (s *sqliteStore) InsertNote(ctx context.Context, n store.Note) error {
	keywords := n.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	kwJSON, err := json.Marshal(keywords)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO supplier_notes (
	id, supplier_id, supplier_name, supplier_status, note_type, author,
	date, content, sentiment, sentiment_score, keywords, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
		n.ID,
		n.SupplierID,
		n.SupplierName,
		n.SupplierStatus,
		n.Type,
		n.Author,
		n.Date,
		n.Content,
		n.Sentiment,
		n.SentimentScore,
		string(kwJSON),
		formatTime(n.CreatedAt),
	)
	return err
}

// ClearNotes deletes every stored note. Suppliers are kept.
func (s *sqliteStore) ClearNotes(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM supplier_notes`)
	return err
}

// NotesBySupplier returns a supplier's most recent notes by date
func (s *sqliteStore) NotesBySupplier(ctx context.Context, supplierID string, limit int) ([]store.Note, error) {
	if limit <= 0 {
		limit = store.DefaultNoteLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, supplier_id, supplier_name, supplier_status, note_type, author,
	date, content, sentiment, sentiment_score, keywords, created_at
FROM supplier_notes
WHERE supplier_id = ?
ORDER BY date DESC, id
LIMIT ?;
`, supplierID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Note
	for rows.Next() {
		var (
			n       store.Note
			kwJSON  string
			created string
		)
		if err := rows.Scan(
			&n.ID, &n.SupplierID, &n.SupplierName, &n.SupplierStatus, &n.Type, &n.Author,
			&n.Date, &n.Content, &n.Sentiment, &n.SentimentScore, &kwJSON, &created,
		); err != nil {
			return nil, err
		}
		if kwJSON != "" {
			if err := json.Unmarshal([]byte(kwJSON), &n.Keywords); err != nil {
				return nil, fmt.Errorf("note %s keywords: %w", n.ID, err)
			}
		}
		n.CreatedAt = parseTime(created)
		out = append(out, n)
	}
	return out, rows.Err()
}

// SentimentSummary aggregates sentiment per supplier, best average first
func (s *sqliteStore) SentimentSummary(ctx context.Context) ([]store.SentimentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT
	s.supplier_name,
	COUNT(*),
	SUM(CASE WHEN n.sentiment = 'POSITIVE' THEN 1 ELSE 0 END),
	SUM(CASE WHEN n.sentiment = 'NEGATIVE' THEN 1 ELSE 0 END),
	SUM(CASE WHEN n.sentiment = 'NEUTRAL' THEN 1 ELSE 0 END),
	ROUND(AVG(n.sentiment_score), 2) AS avg_score
FROM supplier_notes n
JOIN suppliers s ON s.supplier_id = n.supplier_id
GROUP BY n.supplier_id
ORDER BY avg_score DESC, s.supplier_name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SentimentSummary
	for rows.Next() {
		var sum store.SentimentSummary
		if err := rows.Scan(&sum.SupplierName, &sum.Total, &sum.Positive, &sum.Negative, &sum.Neutral, &sum.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SentimentTrend returns the average score per note date for one supplier.
// Undated notes are left out.
func (s *sqliteStore) SentimentTrend(ctx context.Context, supplierID string) ([]store.TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT date, ROUND(AVG(sentiment_score), 2), COUNT(*)
FROM supplier_notes
WHERE supplier_id = ? AND date IS NOT NULL AND date != ''
GROUP BY date
ORDER BY date;
`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.TrendPoint
	for rows.Next() {
		var p store.TrendPoint
		if err := rows.Scan(&p.Date, &p.AverageScore, &p.Notes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordRun stores the outcome of one ingestion run
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ingest_runs (id, document, notes, suppliers, skipped, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`, r.ID, r.Document, r.Notes, r.Suppliers, r.Skipped, formatTime(r.StartedAt), formatTime(r.FinishedAt))
	return err
}

// ListRuns returns the most recent runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, document, notes, suppliers, skipped, started_at, finished_at
FROM ingest_runs
ORDER BY started_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var (
			r                 store.Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Document, &r.Notes, &r.Suppliers, &r.Skipped, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// timeLayout keeps a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
