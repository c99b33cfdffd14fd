package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cognicore/supplynotes/internal/jsonl"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store/sqlite"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	// flags are package state; reset between invocations
	verbose, dbPath, configDir = false, "", ""
	parseOutput, reload = "-", false
	notesLimit, runsLimit, trendID = 10, 20, ""

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("supplynotes %s: %v", strings.Join(args, " "), err)
	}
}

func TestParseWritesRecords(t *testing.T) {
	notes := filepath.Join(repoRoot(t), "testdata", "notes", "supplier_notes.txt")
	out := filepath.Join(t.TempDir(), "notes.jsonl")

	runCLI(t, "parse", notes, "--output", out)

	records, err := jsonl.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("expected 8 records, got %d", len(records))
	}
	first := records[0]
	if first.SupplierName != "QuickFab Industries" || first.Author != "Dana" || first.Sentiment != "NEGATIVE" {
		t.Errorf("unexpected first record %+v", first)
	}

	runCLI(t, "summarize", out)
}

func TestLoadAndQuery(t *testing.T) {
	root := repoRoot(t)
	notes := filepath.Join(root, "testdata", "notes", "supplier_notes.txt")
	db := filepath.Join(t.TempDir(), "notes.db")

	runCLI(t, "load", notes, "--db", db)
	runCLI(t, "load", notes, "--db", db, "--reload")
	runCLI(t, "suppliers", "--db", db)
	runCLI(t, "sentiment", "--db", db)
	runCLI(t, "runs", "--db", db)

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, db)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer st.Close()

	suppliers, err := st.ListSuppliers(ctx)
	if err != nil {
		t.Fatalf("list suppliers: %v", err)
	}
	if len(suppliers) != 5 {
		t.Fatalf("expected 5 suppliers, got %d", len(suppliers))
	}
	total := 0
	for _, s := range suppliers {
		total += s.NoteCount
	}
	if total != 8 {
		t.Errorf("reload should leave exactly one copy of each note, got %d", total)
	}

	runCLI(t, "notes", suppliers[0].ID, "--db", db, "-n", "2")
	runCLI(t, "sentiment", "--db", db, "--trend", suppliers[0].ID)
}

func TestConfigDirFromEnv(t *testing.T) {
	root := repoRoot(t)
	notes := filepath.Join(root, "testdata", "notes", "supplier_notes.txt")
	out := filepath.Join(t.TempDir(), "notes.jsonl")
	t.Setenv(envConfigDir, filepath.Join(root, "testdata", "config"))

	runCLI(t, "parse", notes, "-o", out)

	records, err := jsonl.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	for _, r := range records {
		if r.SupplierName == "General Notes" {
			t.Error("custom alias table should replace the built-in one")
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv(envDB, "")
	if got := envOr(envDB, "fallback.db"); got != "fallback.db" {
		t.Errorf("envOr = %q", got)
	}
	t.Setenv(envDB, "/tmp/x.db")
	if got := envOr(envDB, "fallback.db"); got != "/tmp/x.db" {
		t.Errorf("envOr = %q", got)
	}
}

func TestWriteRecordsReportsFileErrors(t *testing.T) {
	notes := []ingest.NoteRecord{{ID: "n1", SupplierName: "Acme", Content: "On time."}}

	out := filepath.Join(t.TempDir(), "out.jsonl")
	if err := writeRecords(out, notes); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := jsonl.Load(out)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %+v, err = %v", records, err)
	}

	if err := writeRecords(filepath.Join(t.TempDir(), "missing", "out.jsonl"), notes); err == nil {
		t.Error("expected error for a missing directory")
	}

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	if err := writeRecords("/dev/full", notes); err == nil {
		t.Error("expected error when the output cannot be flushed")
	}
}
