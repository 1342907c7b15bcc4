package storage

import (
	"context"
	"time"

	"github.com/devraulu/serchr/pkg/parallel"
	"github.com/devraulu/serchr/pkg/result"
)

// Run is the archived header of one executed search plan.
type Run struct {
	ID            int64
	Topic         string
	ExecutedAt    time.Time
	ExecutionTime time.Duration
	TotalSearches int
	SuccessCount  int
	ErrorCount    int
	TotalResults  int
	UniqueResults int
}

// SearchHit is one full-text match over archived results.
type SearchHit struct {
	URL     string
	Title   string
	Snippet string
	Source  string
	Rank    float64
}

type Storage interface {
	SaveRun(ctx context.Context, report *parallel.Report, merged []result.SearchResult) (int64, error)
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	RunResults(ctx context.Context, runID int64) ([]result.SearchResult, error)
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
	Close() error
}
