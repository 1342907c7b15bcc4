package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devraulu/serchr/pkg/storage"
)

var (
	histLimit int
	histQuery string
	histRun   int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived parallel runs",
	Long: `history lists recent archived runs. With --run it prints the stored
results of one run; with --search it runs a full-text query over every
archived result.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&histLimit, "limit", "n", 20,
		"Maximum rows to print")
	historyCmd.Flags().StringVar(&histQuery, "search", "",
		"Full-text query over archived results")
	historyCmd.Flags().Int64Var(&histRun, "run", 0,
		"Print the stored results of this run id")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.DSN == "" {
		return fmt.Errorf("no dsn configured")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return err
	}
	store := storage.NewPostgresStorage(db)
	defer store.Close()

	ctx := cmd.Context()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	switch {
	case histQuery != "":
		hits, err := store.Search(ctx, histQuery, histLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "RANK\tSOURCE\tTITLE\tURL")
		for _, h := range hits {
			fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
				h.Rank, h.Source, truncate(h.Title, 60), h.URL)
		}
	case histRun > 0:
		results, err := store.RunResults(ctx, histRun)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "#\tSCORE\tSOURCE\tTITLE\tURL")
		for i, r := range results {
			fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\t%s\n",
				i+1, r.RecencyScore, r.Source, truncate(r.Title, 60), r.URL)
		}
	default:
		runs, err := store.RecentRuns(ctx, histLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tEXECUTED\tTOPIC\tOK\tFAIL\tUNIQUE")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
				r.ID, r.ExecutedAt.Format("2006-01-02 15:04"),
				truncate(r.Topic, 40), r.SuccessCount, r.ErrorCount,
				r.UniqueResults)
		}
	}
	return w.Flush()
}
