package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/supplynotes/internal/jsonl"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a notes file and print the records as JSON lines, without storing them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ingest.LoadDocument(args[0])
		if err != nil {
			return err
		}
		if err := doc.Validate(); err != nil {
			slog.Warn("document has no text", "path", doc.Name)
		}

		comp, err := loadComponents()
		if err != nil {
			return err
		}
		report := comp.Pipeline().Run(doc)

		if err := writeRecords(parseOutput, report.Notes); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Parsed %d notes for %d suppliers (%d skipped, %d empty, %d orphan sections)\n",
			len(report.Notes), len(report.Suppliers), len(report.Skipped), report.EmptyNotes, report.OrphanSections)
		return nil
	},
}

func writeRecords(path string, notes []ingest.NoteRecord) (err error) {
	if path == "" || path == "-" {
		return jsonl.Write(os.Stdout, notes)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return jsonl.Write(f, notes)
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "-", "Write JSON lines to this file instead of stdout")
	rootCmd.AddCommand(parseCmd)
}
