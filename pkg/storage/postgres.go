package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/devraulu/serchr/pkg/parallel"
	"github.com/devraulu/serchr/pkg/result"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// SaveRun archives a report header and its merged result rows in one
// transaction and returns the new run id.
func (s *PostgresStorage) SaveRun(ctx context.Context, report *parallel.Report, merged []result.SearchResult) (int64, error) {
	summary := parallel.GenerateSummary(report)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO runs (topic, executed_at, execution_ms, total_searches, success_count, error_count, total_results, unique_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		report.Plan.Topic, report.Plan.CreatedAt, report.ExecutionTime.Milliseconds(),
		summary.TotalSearches, report.SuccessCount, report.ErrorCount,
		summary.TotalResults, summary.UniqueResults,
	).Scan(&runID)
	if err != nil {
		return 0, err
	}

	for _, r := range merged {
		var extracted *time.Time
		if r.ExtractedDate != nil {
			extracted = r.ExtractedDate
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (run_id, url, title, snippet, position, source, search_context, extracted_date, recency_score, content, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			runID, r.URL, r.Title, r.Snippet, r.Position, r.Source,
			nullIfEmpty(r.SearchContext), extracted, r.RecencyScore,
			nullIfEmpty(r.Content), r.Timestamp,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	slog.Info("saved run", slog.Int64("id", runID), slog.Int("results", len(merged)))
	return runID, nil
}

func (s *PostgresStorage) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, executed_at, execution_ms, total_searches, success_count, error_count, total_results, unique_results
		FROM runs
		ORDER BY executed_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.Topic, &r.ExecutedAt, &ms, &r.TotalSearches, &r.SuccessCount, &r.ErrorCount, &r.TotalResults, &r.UniqueResults); err != nil {
			return nil, err
		}
		r.ExecutionTime = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresStorage) RunResults(ctx context.Context, runID int64) ([]result.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, snippet, position, source, COALESCE(search_context, ''), extracted_date, recency_score, COALESCE(content, ''), created_at
		FROM results
		WHERE run_id = $1
		ORDER BY recency_score DESC, position ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []result.SearchResult
	for rows.Next() {
		var r result.SearchResult
		var extracted sql.NullTime
		if err := rows.Scan(&r.URL, &r.Title, &r.Snippet, &r.Position, &r.Source, &r.SearchContext, &extracted, &r.RecencyScore, &r.Content, &r.Timestamp); err != nil {
			return nil, err
		}
		if extracted.Valid {
			t := extracted.Time
			r.ExtractedDate = &t
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Search runs a full-text query over every archived result.
func (s *PostgresStorage) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	slog.Debug("archive search", "query", query, "limit", limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			url,
			COALESCE(title, ''),
			ts_headline('english', COALESCE(snippet, ''), q, 'StartSel=<mark>, StopSel=</mark>, MaxWords=50, MinWords=25') AS snippet,
			source,
			ts_rank_cd(textsearch, q, 32) AS rank
		FROM results, websearch_to_tsquery('english', $1) q
		WHERE textsearch @@ q
		ORDER BY rank DESC
		LIMIT $2`,
		query, limit,
	)
	if err != nil {
		slog.Error("archive search failed", "query", query, "err", err)
		return nil, err
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.URL, &h.Title, &h.Snippet, &h.Source, &h.Rank); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
