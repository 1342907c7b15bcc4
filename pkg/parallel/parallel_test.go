package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/engine"
	"github.com/devraulu/serchr/pkg/plan"
	"github.com/devraulu/serchr/pkg/result"
)

// fakeEngine satisfies engine.Engine without a browser. Behavior is
// keyed off the query string so a single factory can serve mixed plans.
type fakeEngine struct {
	name       string
	inFlight   *int32
	maxSeen    *int32
	delay      time.Duration
	extractErr error
}

func (f *fakeEngine) Name() string                  { return f.name }
func (f *fakeEngine) SearchURL(query string) string { return "https://fake.example/?q=" + query }
func (f *fakeEngine) Close() error                  { return nil }

func (f *fakeEngine) Search(ctx context.Context, query string, numResults int) ([]result.SearchResult, error) {
	if f.inFlight != nil {
		n := atomic.AddInt32(f.inFlight, 1)
		for {
			seen := atomic.LoadInt32(f.maxSeen)
			if n <= seen || atomic.CompareAndSwapInt32(f.maxSeen, seen, n) {
				break
			}
		}
		defer atomic.AddInt32(f.inFlight, -1)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	switch query {
	case "boom":
		return nil, errors.New("navigation timed out")
	case "panic":
		panic("scraper went sideways")
	}

	results := make([]result.SearchResult, 0, numResults)
	for i := 1; i <= numResults; i++ {
		results = append(results, result.New(
			fmt.Sprintf("%s result %d", query, i),
			fmt.Sprintf("https://%s.example/%s/%d", f.name, query, i),
			"published 2 days ago",
			i,
			f.name,
		))
	}
	return results, nil
}

func (f *fakeEngine) ExtractTextContent(ctx context.Context, url string) (string, error) {
	if f.extractErr != nil {
		return "", f.extractErr
	}
	return "full text of " + url, nil
}

func customPlan(keywords []string, engines []string) plan.Plan {
	return plan.CreateCustom("test topic", keywords, plan.Options{
		Engines:    engines,
		NumResults: 2,
	})
}

func newTestEngine(maxConcurrent int, fe *fakeEngine) *Engine {
	e := New(maxConcurrent, browser.Config{})
	e.newEngine = func(name string, _ browser.Config) (engine.Engine, error) {
		clone := *fe
		clone.name = name
		return &clone, nil
	}
	return e
}

func TestExecutePlanAllSucceed(t *testing.T) {
	e := newTestEngine(3, &fakeEngine{})
	p := customPlan([]string{"alpha", "beta"}, []string{"google", "bing"})

	report := e.ExecutePlan(context.Background(), p)

	assert.Equal(t, 4, report.SuccessCount)
	assert.Equal(t, 0, report.ErrorCount)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Results, 4)
	assert.Len(t, report.Results["alpha (google)"], 2)
	assert.Greater(t, report.ExecutionTime, time.Duration(0))
}

func TestExecutePlanIsolatesFailures(t *testing.T) {
	e := newTestEngine(3, &fakeEngine{})
	p := customPlan([]string{"alpha", "boom", "panic"}, []string{"google"})

	report := e.ExecutePlan(context.Background(), p)

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 2, report.ErrorCount)
	assert.Contains(t, report.Results, "alpha (google)")
	assert.Contains(t, report.Errors["boom (google)"], "navigation timed out")
	assert.Contains(t, report.Errors["panic (google)"], "scraper went sideways")

	// Every task lands in exactly one half of the report.
	for _, task := range p.Tasks {
		key := task.Key()
		_, ok := report.Results[key]
		_, failed := report.Errors[key]
		assert.True(t, ok != failed, "task %q in exactly one of results/errors", key)
	}
	assert.Equal(t, len(p.Tasks), report.SuccessCount+report.ErrorCount)
}

func TestExecutePlanFactoryErrorBecomesTaskError(t *testing.T) {
	e := New(2, browser.Config{})
	e.newEngine = func(name string, _ browser.Config) (engine.Engine, error) {
		return nil, engine.ErrUnknownEngine
	}
	p := customPlan([]string{"alpha"}, []string{"nope"})

	report := e.ExecutePlan(context.Background(), p)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Contains(t, report.Errors["alpha (nope)"], "unknown search engine")
}

func TestExecutePlanHonorsConcurrencyCap(t *testing.T) {
	var inFlight, maxSeen int32
	fe := &fakeEngine{inFlight: &inFlight, maxSeen: &maxSeen, delay: 20 * time.Millisecond}
	e := newTestEngine(2, fe)

	p := customPlan([]string{"a", "b", "c", "d", "e", "f"}, []string{"google"})
	report := e.ExecutePlan(context.Background(), p)

	assert.Equal(t, 6, report.SuccessCount)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
	assert.Greater(t, atomic.LoadInt32(&maxSeen), int32(0))
}

func TestExecutePlanExtractsContentForTopResults(t *testing.T) {
	e := newTestEngine(1, &fakeEngine{})
	p := plan.CreateCustom("t", []string{"alpha"}, plan.Options{
		Engines:        []string{"google"},
		NumResults:     5,
		ExtractContent: true,
	})

	report := e.ExecutePlan(context.Background(), p)
	results := report.Results["alpha (google)"]
	require.Len(t, results, 5)
	for i, r := range results {
		if i < contentExtractionLimit {
			assert.NotEmpty(t, r.Content, "result %d", i)
		} else {
			assert.Empty(t, r.Content, "result %d", i)
		}
	}
}

func TestExecutePlanExtractionFailureKeepsResult(t *testing.T) {
	e := newTestEngine(1, &fakeEngine{extractErr: errors.New("robots disallow")})
	p := plan.CreateCustom("t", []string{"alpha"}, plan.Options{
		Engines:        []string{"google"},
		NumResults:     2,
		ExtractContent: true,
	})

	report := e.ExecutePlan(context.Background(), p)
	results := report.Results["alpha (google)"]
	require.Len(t, results, 2, "extraction failures never drop results")
	for _, r := range results {
		assert.Empty(t, r.Content)
	}
}

func TestMergeAndDeduplicateTagsAndSorts(t *testing.T) {
	e := newTestEngine(2, &fakeEngine{})
	p := customPlan([]string{"alpha", "beta"}, []string{"google"})

	report := e.ExecutePlan(context.Background(), p)
	merged := MergeAndDeduplicate(report)

	require.Len(t, merged, 4, "distinct URLs across tasks all survive")
	for _, r := range merged {
		assert.NotEmpty(t, r.SearchContext)
		assert.Contains(t, r.SearchContext, "(google)")
	}
	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].RecencyScore, merged[i].RecencyScore)
	}
}

func TestMergeAndDeduplicateDropsCrossTaskDuplicates(t *testing.T) {
	report := &Report{
		Plan: customPlan([]string{"alpha", "beta"}, []string{"google"}),
		Results: map[string][]result.SearchResult{
			"alpha (google)": {
				{URL: "https://dup.example/", Position: 1, RecencyScore: 0.9},
				{URL: "https://only-a.example/", Position: 2, RecencyScore: 0.5},
			},
			"beta (google)": {
				{URL: "https://dup.example/", Position: 1, RecencyScore: 0.9},
			},
		},
		SuccessCount: 2,
	}

	merged := MergeAndDeduplicate(report)
	require.Len(t, merged, 2)
	assert.Equal(t, "https://dup.example/", merged[0].URL)
	assert.Equal(t, "alpha (google)", merged[0].SearchContext,
		"keys visited in sorted order, so the alpha copy survives")
}

func TestGenerateSummary(t *testing.T) {
	e := newTestEngine(2, &fakeEngine{})
	p := customPlan([]string{"alpha", "boom"}, []string{"google", "bing"})

	report := e.ExecutePlan(context.Background(), p)
	summary := GenerateSummary(report)

	assert.Equal(t, "test topic", summary.Topic)
	assert.Equal(t, 4, summary.TotalSearches)
	assert.Equal(t, 2, summary.SuccessfulSearches)
	assert.Equal(t, 2, summary.FailedSearches)
	assert.Equal(t, 4, summary.TotalResults)
	assert.Equal(t, 4, summary.UniqueResults)
	assert.Equal(t, 4, summary.ResultsWithDates, "fake snippets all carry a date")
	assert.Equal(t, []string{"alpha", "boom"}, summary.KeywordsUsed)
	assert.Equal(t, []string{"bing", "google"}, summary.EnginesUsed)
	assert.Equal(t, 2, summary.SourceDistribution["google"])
	assert.Equal(t, 2, summary.SourceDistribution["bing"])
}
