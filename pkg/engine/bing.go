package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/result"
)

const bingScrapeJS = `(() => {
	const out = [];
	for (const el of document.querySelectorAll('.b_algo')) {
		const link = el.querySelector('h2 a');
		if (!link) continue;
		const title = (link.innerText || '').trim();
		const href = link.getAttribute('href');
		if (!title || !href) continue;
		const snippetEl = el.querySelector('.b_caption p, .b_descript');
		const snippet = snippetEl ? snippetEl.innerText.trim() : '';
		out.push({title: title, url: href, snippet: snippet});
	}
	return out;
})()`

type bingEngine struct {
	*base
}

// NewBing opens a bing engine with its own browser session.
func NewBing(cfg browser.Config) (Engine, error) {
	b, err := newBase("bing", cfg)
	if err != nil {
		return nil, err
	}
	return &bingEngine{base: b}, nil
}

func (b *bingEngine) SearchURL(query string) string {
	return fmt.Sprintf("https://www.bing.com/search?q=%s&count=20", url.QueryEscape(query))
}

func (b *bingEngine) Search(ctx context.Context, query string, numResults int) ([]result.SearchResult, error) {
	slog.Info("searching bing", slog.String("query", query))

	if err := b.session.Navigate(b.SearchURL(query)); err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}
	b.session.HumanDelay()

	if err := waitForResults(b.session, ".b_algo"); err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}

	items, err := scrape(b.session, bingScrapeJS)
	if err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}

	return buildResults(items, "bing", numResults), nil
}
