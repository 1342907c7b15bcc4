package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/result"
)

// googleScrapeJS walks the current result page and returns the raw
// (title, href, snippet) triples. Google markup churns, so several
// container selectors are tried and anything without an h3 is skipped.
const googleScrapeJS = `(() => {
	const out = [];
	const containers = document.querySelectorAll('#search div[data-ved], #search .g, #search [jscontroller], .MjjYud');
	for (const el of containers) {
		const h3 = el.querySelector('h3');
		if (!h3) continue;
		const title = (h3.innerText || '').trim();
		if (!title) continue;
		let link = el.querySelector('a[href]:has(h3)') || el.querySelector('a[href]');
		if (!link) continue;
		const href = link.getAttribute('href');
		if (!href || href.startsWith('#')) continue;
		let snippet = '';
		const snippetSelectors = ['[data-snf="nke7rc"]', '.VwiC3b', '.s3v9rd', '.hgKElc', 'span', 'div'];
		for (const sel of snippetSelectors) {
			for (const cand of el.querySelectorAll(sel)) {
				const text = cand.innerText;
				if (text && text.length > 50 && text !== title && !text.startsWith('http')) {
					snippet = text;
					break;
				}
			}
			if (snippet) break;
		}
		out.push({title: title, url: href, snippet: snippet.trim()});
	}
	return out;
})()`

// consentJS dismisses the cookie-consent interstitial when present.
const consentJS = `(() => {
	const labels = ['Accept all', 'I agree'];
	for (const b of document.querySelectorAll('button')) {
		const text = (b.innerText || '').trim();
		if (labels.some(l => text.includes(l))) { b.click(); return true; }
	}
	return false;
})()`

type googleEngine struct {
	*base
}

// NewGoogle opens a google engine with its own browser session.
func NewGoogle(cfg browser.Config) (Engine, error) {
	b, err := newBase("google", cfg)
	if err != nil {
		return nil, err
	}
	return &googleEngine{base: b}, nil
}

func (g *googleEngine) SearchURL(query string) string {
	return fmt.Sprintf("https://www.google.com/search?q=%s&num=20", url.QueryEscape(query))
}

func (g *googleEngine) Search(ctx context.Context, query string, numResults int) ([]result.SearchResult, error) {
	slog.Info("searching google", slog.String("query", query))

	if err := g.session.Navigate(g.SearchURL(query)); err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	g.session.HumanDelay()

	var clicked bool
	if err := g.session.Evaluate(consentJS, &clicked); err == nil && clicked {
		g.session.HumanDelay()
	}

	if err := waitForResults(g.session, "#search", "[data-ved]", "h3"); err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	items, err := scrape(g.session, googleScrapeJS)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	return buildResults(items, "google", numResults), nil
}
