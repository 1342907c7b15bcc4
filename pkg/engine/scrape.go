package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/result"
)

// rawItem is what the in-page scrape scripts hand back.
type rawItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// waitForResults tries each selector in turn with a shrinking timeout;
// engine result markup varies across experiments, so the fallbacks
// matter. Fails only when none of the selectors shows up.
func waitForResults(s *browser.Session, selectors ...string) error {
	timeout := 10 * time.Second
	var lastErr error
	for _, selector := range selectors {
		if err := s.WaitVisible(selector, timeout); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if timeout > 5*time.Second {
			timeout -= 2 * time.Second
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no result selector matched")
	}
	return lastErr
}

func scrape(s *browser.Session, js string) ([]rawItem, error) {
	var items []rawItem
	if err := s.Evaluate(js, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// buildResults turns raw scraped items into ranked SearchResults:
// cleans URLs, drops in-page duplicates, assigns 1-based positions and
// derives the extracted date and recency score from each snippet.
func buildResults(items []rawItem, source string, numResults int) []result.SearchResult {
	results := make([]result.SearchResult, 0, min(len(items), numResults))
	seen := make(map[string]struct{}, len(items))

	position := 1
	for _, item := range items {
		if position > numResults {
			break
		}

		cleaned := cleanResultURL(item.URL)
		if _, ok := seen[cleaned+"\x00"+item.Title]; ok {
			continue
		}
		seen[cleaned+"\x00"+item.Title] = struct{}{}

		results = append(results, result.New(item.Title, cleaned, item.Snippet, position, source))
		position++
	}

	slog.Debug("scraped results", slog.String("source", source), slog.Int("count", len(results)))
	return results
}
