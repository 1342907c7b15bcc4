package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkResult(url string, position int, score float64, date *time.Time) SearchResult {
	return SearchResult{
		Title:         "t " + url,
		URL:           url,
		Position:      position,
		Source:        "google",
		RecencyScore:  score,
		ExtractedDate: date,
	}
}

func TestDeduplicateFirstOccurrenceWins(t *testing.T) {
	results := []SearchResult{
		mkResult("https://a.example/", 1, 0.9, nil),
		mkResult("https://b.example/", 2, 0.5, nil),
		mkResult("https://a.example/", 3, 0.1, nil),
	}

	unique := Deduplicate(results)
	require.Len(t, unique, 2)
	assert.Equal(t, "https://a.example/", unique[0].URL)
	assert.Equal(t, 1, unique[0].Position, "the first occurrence survives")
	assert.Equal(t, "https://b.example/", unique[1].URL)
}

func TestMergeOrdersByScoreThenPosition(t *testing.T) {
	groups := [][]SearchResult{
		{
			mkResult("https://u1.example/", 1, 0.9, nil),
			mkResult("https://u3.example/", 2, 0.3, nil),
		},
		{
			mkResult("https://u2.example/", 2, 0.9, nil),
			mkResult("https://u1.example/", 1, 0.9, nil),
		},
	}

	merged := Merge(groups, true)
	require.Len(t, merged, 3)
	assert.Equal(t, "https://u1.example/", merged[0].URL)
	assert.Equal(t, "https://u2.example/", merged[1].URL)
	assert.Equal(t, "https://u3.example/", merged[2].URL)
}

func TestMergeWithoutDeduplication(t *testing.T) {
	groups := [][]SearchResult{
		{mkResult("https://a.example/", 1, 0.5, nil)},
		{mkResult("https://a.example/", 1, 0.5, nil)},
	}
	assert.Len(t, Merge(groups, false), 2)
}

func TestMergeIsIdempotent(t *testing.T) {
	groups := [][]SearchResult{
		{
			mkResult("https://a.example/", 2, 0.7, nil),
			mkResult("https://b.example/", 1, 0.7, nil),
			mkResult("https://c.example/", 1, 0.2, nil),
		},
	}

	once := Merge(groups, true)
	twice := Merge([][]SearchResult{once}, true)
	assert.Equal(t, once, twice)
}

func TestFilterAndSortDropsOnlyStaleKnownDates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-10 * 24 * time.Hour)
	stale := now.Add(-200 * 24 * time.Hour)

	results := []SearchResult{
		mkResult("https://fresh.example/", 1, 0, &fresh),
		mkResult("https://stale.example/", 2, 0, &stale),
		mkResult("https://undated.example/", 3, 0, nil),
	}

	scored := filterAndSortByDateAt(results, true, 3, now)
	require.Len(t, scored, 2, "undated results are kept, stale ones dropped")
	assert.Equal(t, "https://fresh.example/", scored[0].Result.URL)
	assert.Equal(t, "https://undated.example/", scored[1].Result.URL)
	assert.Greater(t, scored[0].Score, scored[1].Score)
	assert.Equal(t, 0.0, scored[1].Score)
}

func TestFilterAndSortWithoutRecentOnlyKeepsEverything(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-400 * 24 * time.Hour)

	results := []SearchResult{
		mkResult("https://stale.example/", 1, 0, &stale),
		mkResult("https://undated.example/", 2, 0, nil),
	}

	scored := filterAndSortByDateAt(results, false, 3, now)
	require.Len(t, scored, 2)
	assert.Equal(t, "https://stale.example/", scored[0].Result.URL, "a known old date still beats no date")
}

func TestAddContextMutatesInPlace(t *testing.T) {
	results := []SearchResult{
		mkResult("https://a.example/", 1, 0.5, nil),
		mkResult("https://b.example/", 2, 0.5, nil),
	}

	returned := AddContext(results, "go 1.25 (google)")
	for i := range results {
		assert.Equal(t, "go 1.25 (google)", results[i].SearchContext)
	}
	assert.Same(t, &results[0], &returned[0], "same backing array")
}

func TestLimit(t *testing.T) {
	results := []SearchResult{
		mkResult("https://a.example/", 1, 0.5, nil),
		mkResult("https://b.example/", 2, 0.5, nil),
	}
	assert.Len(t, Limit(results, 1), 1)
	assert.Len(t, Limit(results, 5), 2)
}

func TestNewDerivesDateAndScore(t *testing.T) {
	r := New("Go release", "https://go.dev/blog/", "published 2 days ago", 1, "google")
	require.NotNil(t, r.ExtractedDate)
	assert.Equal(t, 1.0, r.RecencyScore)
	assert.False(t, r.Timestamp.IsZero())

	undated := New("Go docs", "https://go.dev/doc/", "language reference", 2, "google")
	assert.Nil(t, undated.ExtractedDate)
	assert.Equal(t, 0.0, undated.RecencyScore)
}
