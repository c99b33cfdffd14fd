package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
)

// Record is the JSON line form of a note record
type Record struct {
	ID             string    `json:"id"`
	SupplierID     string    `json:"supplier_id"`
	SupplierName   string    `json:"supplier_name"`
	SupplierStatus string    `json:"supplier_status"`
	NoteType       string    `json:"note_type"`
	Author         string    `json:"author"`
	Date           string    `json:"date"`
	Content        string    `json:"content"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Keywords       []string  `json:"keywords"`
	CreatedAt      time.Time `json:"created_at"`
}

// FromNote converts a pipeline record
func FromNote(n ingest.NoteRecord) Record {
	kw := n.Keywords
	if kw == nil {
		kw = []string{}
	}
	return Record{
		ID:             n.ID,
		SupplierID:     n.SupplierID,
		SupplierName:   n.SupplierName,
		SupplierStatus: n.SupplierStatus,
		NoteType:       string(n.Type),
		Author:         n.Author,
		Date:           n.Date,
		Content:        n.Content,
		Sentiment:      string(n.Sentiment),
		SentimentScore: n.SentimentScore,
		Keywords:       kw,
		CreatedAt:      n.CreatedAt,
	}
}

// Write encodes one record per line
func Write(w io.Writer, notes []ingest.NoteRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, n := range notes {
		if err := enc.Encode(FromNote(n)); err != nil {
			return fmt.Errorf("encode note %s: %w", n.ID, err)
		}
	}
	return bw.Flush()
}

// Load reads records from a JSONL file. Malformed lines are logged and
// skipped.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var records []Record
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			slog.Warn("skipping malformed JSON line", "line", i+1, "path", path, "err", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
