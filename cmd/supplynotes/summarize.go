package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/supplynotes/internal/jsonl"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize RECORDS.jsonl",
	Short: "Summarize sentiment from a parse output file without a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := jsonl.Load(args[0])
		if err != nil {
			return err
		}

		type counts struct {
			name            string
			total, pos, neg int
			score           float64
		}
		bySupplier := make(map[string]*counts)
		for _, r := range records {
			c, ok := bySupplier[r.SupplierID]
			if !ok {
				c = &counts{name: r.SupplierName}
				bySupplier[r.SupplierID] = c
			}
			c.total++
			c.score += r.SentimentScore
			switch r.Sentiment {
			case "POSITIVE":
				c.pos++
			case "NEGATIVE":
				c.neg++
			}
		}

		rows := make([]*counts, 0, len(bySupplier))
		for _, c := range bySupplier {
			rows = append(rows, c)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SUPPLIER\tNOTES\tPOS\tNEG\tAVG")
		for _, c := range rows {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%+.2f\n", c.name, c.total, c.pos, c.neg, c.score/float64(c.total))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
