package result

import (
	"sort"
	"time"
)

// Scored pairs a result with the recency score it was ranked by.
type Scored struct {
	Result SearchResult
	Score  float64
}

// FilterAndSortByDate scores every result by recency and orders them
// highest first. With recentOnly set, results whose extracted date is
// known and older than the months cutoff are dropped; undated results
// are always kept.
func FilterAndSortByDate(results []SearchResult, recentOnly bool, months int) []Scored {
	return filterAndSortByDateAt(results, recentOnly, months, time.Now())
}

func filterAndSortByDateAt(results []SearchResult, recentOnly bool, months int, now time.Time) []Scored {
	scored := make([]Scored, 0, len(results))

	for _, r := range results {
		score := RecencyScoreAt(r.ExtractedDate, now)

		if recentOnly && r.ExtractedDate != nil && !IsRecentAt(*r.ExtractedDate, months, now) {
			continue
		}

		scored = append(scored, Scored{Result: r, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// Deduplicate drops later occurrences of an already-seen URL, keeping
// the first occurrence and the relative order of survivors.
func Deduplicate(results []SearchResult) []SearchResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]SearchResult, 0, len(results))

	for _, r := range results {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		unique = append(unique, r)
	}

	return unique
}

// Merge concatenates the groups in input order, optionally deduplicates
// by URL, and sorts by recency score descending with ties broken by the
// better (lower) engine position.
func Merge(groups [][]SearchResult, deduplicate bool) []SearchResult {
	var all []SearchResult
	for _, group := range groups {
		all = append(all, group...)
	}

	if deduplicate {
		all = Deduplicate(all)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].RecencyScore != all[j].RecencyScore {
			return all[i].RecencyScore > all[j].RecencyScore
		}
		return all[i].Position < all[j].Position
	})

	return all
}

// AddContext labels every result in place with the plan task that
// produced it and returns the same slice.
func AddContext(results []SearchResult, context string) []SearchResult {
	for i := range results {
		results[i].SearchContext = context
	}
	return results
}

// Limit truncates results to at most limit entries.
func Limit(results []SearchResult, limit int) []SearchResult {
	if len(results) <= limit {
		return results
	}
	return results[:limit]
}
