package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/supplynotes/pkg/supplynotes"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
)

var reload bool

var loadCmd = &cobra.Command{
	Use:   "load FILE...",
	Short: "Ingest notes files and store suppliers and notes in the database",
	Long: `Ingest one or more notes files. Several files are processed in parallel and
their supplier registries merged in argument order. With --reload, stored
notes are cleared first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reload && len(args) > 1 {
			return errors.New("--reload takes a single file")
		}

		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		var lr supplynotes.LoadReport
		switch {
		case reload:
			doc, err := ingest.LoadDocument(args[0])
			if err != nil {
				return err
			}
			lr, err = svc.Reload(ctx, doc)
			if err != nil {
				return err
			}
		case len(args) == 1:
			lr, err = svc.LoadFile(ctx, args[0])
			if err != nil {
				return err
			}
		default:
			docs := make([]ingest.Document, 0, len(args))
			for _, path := range args {
				doc, err := ingest.LoadDocument(path)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			lr, err = svc.LoadAll(ctx, docs)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Loaded %d notes for %d suppliers (%d new) into %s\n",
			lr.NotesStored, len(lr.Suppliers), lr.SuppliersInserted, dbPath)
		for _, s := range lr.Skipped() {
			fmt.Printf("  skipped note %d (%s): %v\n", s.Index, s.Supplier, s.Err)
		}
		for _, f := range lr.Failed {
			fmt.Printf("  failed to store %s (%s): %v\n", f.NoteID, f.Supplier, f.Err)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().BoolVar(&reload, "reload", false, "Clear stored notes before loading")
	rootCmd.AddCommand(loadCmd)
}
