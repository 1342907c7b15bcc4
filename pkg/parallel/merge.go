package parallel

import (
	"sort"
	"time"

	"github.com/devraulu/serchr/pkg/result"
)

// MergeAndDeduplicate tags every result with the task that produced it,
// flattens the report and returns one URL-deduplicated list ordered by
// recency score, ties broken by engine position. Task keys are visited
// in sorted order so repeated merges of the same report pick the same
// duplicate survivors.
func MergeAndDeduplicate(report *Report) []result.SearchResult {
	keys := make([]string, 0, len(report.Results))
	for key := range report.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var all []result.SearchResult
	for _, key := range keys {
		all = append(all, result.AddContext(report.Results[key], key)...)
	}

	return result.Merge([][]result.SearchResult{all}, true)
}

// Summary condenses a report for display and archiving.
type Summary struct {
	Topic              string         `json:"topic"`
	TotalSearches      int            `json:"total_searches"`
	SuccessfulSearches int            `json:"successful_searches"`
	FailedSearches     int            `json:"failed_searches"`
	TotalResults       int            `json:"total_results"`
	UniqueResults      int            `json:"unique_results"`
	ResultsWithDates   int            `json:"results_with_dates"`
	ExecutionTime      time.Duration  `json:"execution_time"`
	SourceDistribution map[string]int `json:"source_distribution"`
	KeywordsUsed       []string       `json:"keywords_used"`
	EnginesUsed        []string       `json:"engines_used"`
}

// GenerateSummary is a pure function of the report.
func GenerateSummary(report *Report) Summary {
	merged := MergeAndDeduplicate(report)

	sources := make(map[string]int)
	dated := 0
	for _, r := range merged {
		sources[r.Source]++
		if r.ExtractedDate != nil {
			dated++
		}
	}

	total := 0
	for _, results := range report.Results {
		total += len(results)
	}

	keywords := make(map[string]struct{})
	engines := make(map[string]struct{})
	for _, t := range report.Plan.Tasks {
		keywords[t.Keyword] = struct{}{}
		engines[t.Engine] = struct{}{}
	}

	return Summary{
		Topic:              report.Plan.Topic,
		TotalSearches:      len(report.Plan.Tasks),
		SuccessfulSearches: report.SuccessCount,
		FailedSearches:     report.ErrorCount,
		TotalResults:       total,
		UniqueResults:      len(merged),
		ResultsWithDates:   dated,
		ExecutionTime:      report.ExecutionTime,
		SourceDistribution: sources,
		KeywordsUsed:       sortedKeys(keywords),
		EnginesUsed:        sortedKeys(engines),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
