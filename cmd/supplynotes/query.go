package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	notesLimit int
	runsLimit  int
	trendID    string
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List stored suppliers with note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		list, err := svc.Suppliers(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKEY\tNOTES")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.NormalizedName, s.NoteCount)
		}
		return w.Flush()
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes SUPPLIER_ID",
	Short: "Show a supplier's most recent notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		sup, err := svc.Supplier(ctx, args[0])
		if err != nil {
			return err
		}
		notes, err := svc.Notes(ctx, sup.ID, notesLimit)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n\n", sup.Name, sup.ID)
		for _, n := range notes {
			date := n.Date
			if date == "" {
				date = "undated"
			}
			fmt.Printf("[%s] %s by %s, %s %+.2f\n", date, n.Type, n.Author, n.Sentiment, n.SentimentScore)
			if len(n.Keywords) > 0 {
				fmt.Printf("  keywords: %s\n", strings.Join(n.Keywords, ", "))
			}
			fmt.Printf("  %s\n\n", n.Content)
		}
		return nil
	},
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Summarize note sentiment per supplier, or per date with --trend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if trendID != "" {
			points, err := svc.SentimentTrend(ctx, trendID)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "DATE\tNOTES\tAVG")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%d\t%+.2f\n", p.Date, p.Notes, p.AverageScore)
			}
			return w.Flush()
		}

		summary, err := svc.SentimentSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "SUPPLIER\tTOTAL\tPOS\tNEG\tNEU\tAVG")
		for _, s := range summary {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%+.2f\n",
				s.SupplierName, s.Total, s.Positive, s.Negative, s.Neutral, s.AverageScore)
		}
		return w.Flush()
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		runs, err := svc.Runs(ctx, runsLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTARTED\tDOCUMENT\tNOTES\tSUPPLIERS\tSKIPPED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Document, r.Notes, r.Suppliers, r.Skipped)
		}
		return w.Flush()
	},
}

func init() {
	notesCmd.Flags().IntVarP(&notesLimit, "limit", "n", 10, "Maximum number of notes")
	sentimentCmd.Flags().StringVar(&trendID, "trend", "", "Show the per-date trend for this supplier id")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs")

	rootCmd.AddCommand(suppliersCmd, notesCmd, sentimentCmd, runsCmd)
}
