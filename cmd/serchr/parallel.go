package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/devraulu/serchr/pkg/engine"
	"github.com/devraulu/serchr/pkg/parallel"
	"github.com/devraulu/serchr/pkg/plan"
	"github.com/devraulu/serchr/pkg/result"
	"github.com/devraulu/serchr/pkg/storage"
)

var (
	parType     string
	parKeywords []string
	parEngines  []string
	parNum      int
	parMax      int
	parExtract  bool
	parRecent   bool
	parMonths   int
	parTop      int
	parJSON     bool
	parSave     bool
)

var parallelCmd = &cobra.Command{
	Use:   "parallel <topic>",
	Short: "Fan a topic out into concurrent searches and merge the results",
	Long: `parallel expands a topic into a plan of keyword/engine tasks, runs
them concurrently against real browser sessions and prints the merged,
deduplicated result list plus an execution summary.

With --keywords the plan uses your keywords verbatim instead of the
built-in templates for the plan type.`,
	Args: cobra.ExactArgs(1),
	RunE: runParallel,
}

func init() {
	parallelCmd.Flags().StringVarP(&parType, "type", "t", "technology",
		"Plan type ("+strings.Join(plan.Types(), ", ")+")")
	parallelCmd.Flags().StringSliceVarP(&parKeywords, "keywords", "k", nil,
		"Explicit keywords to search instead of plan templates")
	parallelCmd.Flags().StringSliceVar(&parEngines, "engines", []string{"google", "bing"},
		"Engines each keyword is searched on")
	parallelCmd.Flags().IntVarP(&parNum, "num", "n", 5,
		"Results requested per task")
	parallelCmd.Flags().IntVar(&parMax, "max-concurrent", 0,
		"Concurrent browser sessions (defaults to search.max_concurrent)")
	parallelCmd.Flags().BoolVar(&parExtract, "extract-content", false,
		"Fetch full page text for the top results of each task")
	parallelCmd.Flags().BoolVar(&parRecent, "recent-only", true,
		"Drop results with a known date older than the window")
	parallelCmd.Flags().IntVar(&parMonths, "months", 3,
		"Recency window in months")
	parallelCmd.Flags().IntVar(&parTop, "top", 0,
		"Show only the best N merged results (0 shows all)")
	parallelCmd.Flags().BoolVar(&parJSON, "json", false,
		"Emit the full report as JSON")
	parallelCmd.Flags().BoolVar(&parSave, "save", false,
		"Archive the run in Postgres (requires dsn in config)")
	rootCmd.AddCommand(parallelCmd)
}

func runParallel(cmd *cobra.Command, args []string) error {
	topic := strings.TrimSpace(args[0])
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}

	engines := make([]string, 0, len(parEngines))
	for _, name := range parEngines {
		canonical, err := engine.Normalize(name)
		if err != nil {
			return err
		}
		engines = append(engines, canonical)
	}

	opts := plan.Options{
		Engines:        engines,
		NumResults:     parNum,
		ExtractContent: parExtract,
		RecentOnly:     parRecent,
		Months:         parMonths,
	}

	var p plan.Plan
	if len(parKeywords) > 0 {
		p = plan.CreateCustom(topic, parKeywords, opts)
	} else {
		p = plan.Create(topic, parType, opts)
	}

	maxConcurrent := parMax
	if maxConcurrent <= 0 {
		maxConcurrent = cfg.Search.MaxConcurrent
	}

	exec := parallel.New(maxConcurrent, browserConfig())
	report := exec.ExecutePlan(cmd.Context(), p)
	merged := parallel.MergeAndDeduplicate(report)

	if parSave {
		runID, err := saveRun(cmd.Context(), report, merged)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "run archived as #%d\n", runID)
	}

	// The archive keeps every merged result; --top only trims display.
	if parTop > 0 {
		merged = result.Limit(merged, parTop)
	}

	if parJSON {
		out := struct {
			Summary parallel.Summary      `json:"summary"`
			Results []result.SearchResult `json:"results"`
			Errors  map[string]string     `json:"errors,omitempty"`
		}{
			Summary: parallel.GenerateSummary(report),
			Results: merged,
			Errors:  report.Errors,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printReport(report, merged)
}

func saveRun(ctx context.Context, report *parallel.Report, merged []result.SearchResult) (int64, error) {
	if cfg.DSN == "" {
		return 0, fmt.Errorf("no dsn configured")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return 0, err
	}
	if err := storage.RunMigrations(db); err != nil {
		db.Close()
		return 0, err
	}
	store := storage.NewPostgresStorage(db)
	defer store.Close()
	return store.SaveRun(ctx, report, merged)
}

func printReport(report *parallel.Report, merged []result.SearchResult) error {
	summary := parallel.GenerateSummary(report)

	fmt.Printf("topic: %s\n", summary.Topic)
	fmt.Printf("searches: %d ok, %d failed of %d in %s\n",
		summary.SuccessfulSearches, summary.FailedSearches,
		summary.TotalSearches, summary.ExecutionTime.Round(10*time.Millisecond))
	fmt.Printf("results: %d unique of %d (%d dated)\n\n",
		summary.UniqueResults, summary.TotalResults, summary.ResultsWithDates)

	for key, msg := range report.Errors {
		fmt.Printf("failed: %s: %s\n", key, msg)
	}
	if len(report.Errors) > 0 {
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tSOURCE\tTITLE\tURL")
	for i, r := range merged {
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\t%s\n",
			i+1, r.RecencyScore, r.Source, truncate(r.Title, 60), r.URL)
	}
	return w.Flush()
}
