package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/result"
)

const duckduckgoScrapeJS = `(() => {
	const out = [];
	let containers = document.querySelectorAll('[data-testid="result"]');
	if (containers.length === 0) containers = document.querySelectorAll('article');
	for (const el of containers) {
		const link = el.querySelector('h2 a, [data-testid="result-title-a"]');
		if (!link) continue;
		const title = (link.innerText || '').trim();
		const href = link.getAttribute('href');
		if (!title || !href) continue;
		const snippetEl = el.querySelector('[data-result="snippet"]');
		const snippet = snippetEl ? snippetEl.innerText.trim() : '';
		out.push({title: title, url: href, snippet: snippet});
	}
	return out;
})()`

type duckduckgoEngine struct {
	*base
}

// NewDuckDuckGo opens a duckduckgo engine with its own browser session.
func NewDuckDuckGo(cfg browser.Config) (Engine, error) {
	b, err := newBase("duckduckgo", cfg)
	if err != nil {
		return nil, err
	}
	return &duckduckgoEngine{base: b}, nil
}

func (d *duckduckgoEngine) SearchURL(query string) string {
	return fmt.Sprintf("https://duckduckgo.com/?q=%s", url.QueryEscape(query))
}

func (d *duckduckgoEngine) Search(ctx context.Context, query string, numResults int) ([]result.SearchResult, error) {
	slog.Info("searching duckduckgo", slog.String("query", query))

	if err := d.session.Navigate(d.SearchURL(query)); err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}
	d.session.HumanDelay()

	if err := waitForResults(d.session, `[data-testid="result"]`, "article"); err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	items, err := scrape(d.session, duckduckgoScrapeJS)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	return buildResults(items, "duckduckgo", numResults), nil
}
