package parallel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/engine"
	"github.com/devraulu/serchr/pkg/plan"
	"github.com/devraulu/serchr/pkg/result"
)

// contentExtractionLimit caps how many results per task get full-page
// content extraction.
const contentExtractionLimit = 3

// Factory matches engine.New and exists so tests can substitute fake
// engines for real browser sessions.
type Factory func(name string, cfg browser.Config) (engine.Engine, error)

// Engine executes search plans with bounded concurrency. The browser
// configuration is shared read-only across all tasks; maxConcurrent is
// the hard upper bound on simultaneously open browser sessions.
type Engine struct {
	maxConcurrent int
	cfg           browser.Config
	newEngine     Factory
}

// Report is the outcome of one plan execution. Every task key appears
// in exactly one of Results or Errors, and SuccessCount+ErrorCount
// equals the task count.
type Report struct {
	Plan          plan.Plan                        `json:"plan"`
	Results       map[string][]result.SearchResult `json:"results"`
	ExecutionTime time.Duration                    `json:"execution_time"`
	SuccessCount  int                              `json:"success_count"`
	ErrorCount    int                              `json:"error_count"`
	Errors        map[string]string                `json:"errors"`
}

func New(maxConcurrent int, cfg browser.Config) *Engine {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Engine{
		maxConcurrent: maxConcurrent,
		cfg:           cfg,
		newEngine:     engine.New,
	}
}

type outcome struct {
	key     string
	results []result.SearchResult
	err     string
	failed  bool
}

// ExecutePlan runs every task in the plan concurrently, no more than
// maxConcurrent holding a browser session at once. Individual task
// failures are captured in the report, never raised; the call always
// returns a complete report.
func (e *Engine) ExecutePlan(ctx context.Context, p plan.Plan) *Report {
	start := time.Now()

	outcomes := make(chan outcome, len(p.Tasks))
	sem := make(chan struct{}, e.maxConcurrent)

	var wg sync.WaitGroup
	for _, task := range p.Tasks {
		wg.Add(1)
		go func(t plan.Task) {
			defer wg.Done()
			outcomes <- e.runTask(ctx, t, sem)
		}(task)
	}
	wg.Wait()
	close(outcomes)

	report := &Report{
		Plan:    p,
		Results: make(map[string][]result.SearchResult),
		Errors:  make(map[string]string),
	}
	for o := range outcomes {
		if o.failed {
			report.ErrorCount++
			report.Errors[o.key] = o.err
		} else {
			report.SuccessCount++
			report.Results[o.key] = o.results
		}
	}
	report.ExecutionTime = time.Since(start)

	slog.Info("plan executed",
		slog.String("topic", p.Topic),
		slog.Int("tasks", len(p.Tasks)),
		slog.Int("succeeded", report.SuccessCount),
		slog.Int("failed", report.ErrorCount),
		slog.Duration("elapsed", report.ExecutionTime),
	)
	return report
}

// runTask owns one task end to end: slot, session, search, filtering,
// optional content extraction. Any fault, panics included, becomes an
// error outcome for this task alone.
func (e *Engine) runTask(ctx context.Context, t plan.Task, sem chan struct{}) (o outcome) {
	key := t.Key()
	o = outcome{key: key}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked", slog.String("task", key), slog.Any("panic", r))
			o = outcome{key: key, err: fmt.Sprintf("task panicked: %v", r), failed: true}
		}
	}()

	sem <- struct{}{}
	defer func() { <-sem }()

	eng, err := e.newEngine(t.Engine, e.cfg)
	if err != nil {
		o.err = fmt.Sprintf("search failed: %v", err)
		o.failed = true
		return o
	}
	defer eng.Close()

	results, err := eng.Search(ctx, t.Keyword, t.NumResults)
	if err != nil {
		slog.Error("task failed", slog.String("task", key), slog.Any("err", err))
		o.err = fmt.Sprintf("search failed: %v", err)
		o.failed = true
		return o
	}

	if t.RecentOnly && len(results) > 0 {
		scored := result.FilterAndSortByDate(results, true, t.Months)
		results = results[:0]
		for _, s := range scored {
			results = append(results, s.Result)
		}
	}

	if t.ExtractContent {
		for i := range results[:min(len(results), contentExtractionLimit)] {
			content, err := eng.ExtractTextContent(ctx, results[i].URL)
			if err != nil {
				slog.Warn("content extraction failed",
					slog.String("url", results[i].URL), slog.Any("err", err))
				continue
			}
			results[i].Content = content
		}
	}

	o.results = results
	return o
}
