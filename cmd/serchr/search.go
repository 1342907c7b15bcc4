package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devraulu/serchr/pkg/config"
	"github.com/devraulu/serchr/pkg/engine"
	"github.com/devraulu/serchr/pkg/result"
)

var (
	searchEngine  string
	searchNum     int
	searchExtract bool
	searchRecent  bool
	searchSort    bool
	searchMonths  int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a single query against one engine, or all of them",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchEngine, "engine", "e", "google",
		"Search engine (google, bing, duckduckgo, or all)")
	searchCmd.Flags().IntVarP(&searchNum, "num", "n", 0,
		"Number of results (defaults to search.num_results)")
	searchCmd.Flags().BoolVar(&searchExtract, "extract-content", false,
		"Fetch full page text for the top results")
	searchCmd.Flags().BoolVar(&searchRecent, "recent-only", false,
		"Drop results with a known date older than the window")
	searchCmd.Flags().BoolVar(&searchSort, "sort-by-date", false,
		"Order results by recency score instead of page order")
	searchCmd.Flags().IntVar(&searchMonths, "months", 0,
		"Recency window in months (defaults to search.recent_months)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false,
		"Emit results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := config.ValidateQuery(args[0])
	if err != nil {
		return err
	}
	num := searchNum
	if num <= 0 {
		num = cfg.Search.NumResults
	}
	months := searchMonths
	if months <= 0 {
		months = cfg.Search.RecentMonths
	}

	var names []string
	if searchEngine == "all" {
		names = engine.Names()
	} else {
		name, err := engine.Normalize(searchEngine)
		if err != nil {
			return err
		}
		names = []string{name}
	}

	groups, err := collectResults(cmd.Context(), names, query, num, searchOne)
	if err != nil {
		return err
	}

	results := assembleResults(groups, len(names) > 1, searchRecent, searchSort, months)
	return printResults(results)
}

type searchFunc func(ctx context.Context, name, query string, num int) ([]result.SearchResult, error)

// collectResults queries every engine in turn. A single-engine failure
// propagates; in a fan-out an engine failure is a warning unless no
// engine answered at all.
func collectResults(ctx context.Context, names []string, query string, num int, search searchFunc) ([][]result.SearchResult, error) {
	var groups [][]result.SearchResult
	var failures []string

	for _, name := range names {
		results, err := search(ctx, name, query, num)
		if err != nil {
			if len(names) == 1 {
				return nil, err
			}
			slog.Warn("engine failed, continuing", "engine", name, "error", err)
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		groups = append(groups, results)
	}

	if len(groups) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all engines failed: %s", strings.Join(failures, "; "))
	}
	return groups, nil
}

// assembleResults concatenates the per-engine groups in engine order.
// Page order is preserved unless a recency flag asks for re-ranking;
// deduplication alone never reorders survivors.
func assembleResults(groups [][]result.SearchResult, dedupe, recentOnly, sortByDate bool, months int) []result.SearchResult {
	var all []result.SearchResult
	for _, group := range groups {
		all = append(all, group...)
	}

	if dedupe {
		all = result.Deduplicate(all)
	}

	if recentOnly || sortByDate {
		scored := result.FilterAndSortByDate(all, recentOnly, months)
		all = all[:0]
		for _, s := range scored {
			all = append(all, s.Result)
		}
	}
	return all
}

func searchOne(ctx context.Context, name, query string, num int) ([]result.SearchResult, error) {
	eng, err := engine.New(name, browserConfig())
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	results, err := eng.Search(ctx, query, num)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if searchExtract {
		extractTop(ctx, eng, results)
	}
	return results, nil
}

// extractTop fills Content on the leading results. Extraction failures
// are logged and the result kept without content.
func extractTop(ctx context.Context, eng engine.Engine, results []result.SearchResult) {
	limit := 3
	if limit > len(results) {
		limit = len(results)
	}
	for i := 0; i < limit; i++ {
		content, err := eng.ExtractTextContent(ctx, results[i].URL)
		if err != nil {
			slog.Warn("content extraction failed",
				"url", results[i].URL, "error", err)
			continue
		}
		results[i].Content = content
	}
}

func printResults(results []result.SearchResult) error {
	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tSOURCE\tTITLE\tURL")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\t%s\n",
			i+1, r.RecencyScore, r.Source, truncate(r.Title, 60), r.URL)
	}
	return w.Flush()
}

// truncate shortens s to at most n runes, never splitting a multi-byte
// character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
