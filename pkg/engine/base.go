package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devraulu/serchr/pkg/browser"
)

const (
	maxContentLength = 3000
	maxContentLines  = 200
	minContentLine   = 10
)

// contentSelectors is tried in priority order when pulling the main
// body text out of an arbitrary page.
var contentSelectors = []string{
	"main article",
	"main",
	"article",
	`[role="main"]`,
	".content-body",
	".post-body",
	".entry-content",
	".article-content",
	".main-content",
	".article-body",
	".post-content",
	".content",
}

// noiseSelectors are stripped from the page before content extraction.
var noiseSelectors = []string{
	"nav",
	"header",
	"footer",
	".ads",
	".advertisement",
	".sidebar",
	".menu",
	".navigation",
	`[role="banner"]`,
	`[role="navigation"]`,
	".cookie",
	".popup",
	".modal",
	".related-posts",
	".comments",
	".social-share",
	".breadcrumb",
}

var contentJS = buildContentJS()

func buildContentJS() string {
	noise, _ := json.Marshal(noiseSelectors)
	content, _ := json.Marshal(contentSelectors)
	return fmt.Sprintf(`(() => {
	const noise = %s;
	for (const sel of noise) {
		document.querySelectorAll(sel).forEach(el => el.remove());
	}
	const selectors = %s;
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el) {
			const text = el.innerText;
			if (text && text.trim().length > 100) return text;
		}
	}
	return document.body ? document.body.innerText : '';
})()`, noise, content)
}

// base carries the per-engine browser session and the behavior every
// engine shares: scoped session teardown and content extraction.
type base struct {
	name    string
	session *browser.Session
	robots  *robotsCache
}

func newBase(name string, cfg browser.Config) (*base, error) {
	session, err := browser.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("start %s engine: %w", name, err)
	}
	return &base{
		name:    name,
		session: session,
		robots:  newRobotsCache(cfg.UserAgent),
	}, nil
}

func (b *base) Name() string { return b.name }

func (b *base) Close() error { return b.session.Close() }

// ExtractTextContent pulls the main text content out of url. Pages that
// robots.txt disallows for our user agent are skipped. Returns an empty
// string when no meaningful content is found.
func (b *base) ExtractTextContent(ctx context.Context, url string) (string, error) {
	if !b.robots.Allowed(url) {
		slog.Info("content extraction disallowed by robots.txt", slog.String("url", url))
		return "", nil
	}

	if err := b.session.Navigate(url); err != nil {
		return "", fmt.Errorf("extract content from %s: %w", url, err)
	}
	b.session.HumanDelay()

	var content string
	if err := b.session.Evaluate(contentJS, &content); err != nil {
		slog.Warn("in-page content extraction failed, falling back to html parse",
			slog.String("url", url), slog.Any("err", err))
		content = ""
	}

	if strings.TrimSpace(content) == "" {
		html, err := b.session.OuterHTML()
		if err != nil {
			return "", fmt.Errorf("extract content from %s: %w", url, err)
		}
		content, err = extractText(strings.NewReader(html))
		if err != nil {
			return "", fmt.Errorf("extract content from %s: %w", url, err)
		}
	}

	return cleanContent(content), nil
}

// cleanContent drops navigation-sized lines and caps extracted content
// to a summary-friendly length.
func cleanContent(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > minContentLine {
			kept = append(kept, line)
		}
		if len(kept) >= maxContentLines {
			break
		}
	}

	cleaned := strings.Join(kept, "\n")
	if len(cleaned) > maxContentLength {
		cleaned = cleaned[:maxContentLength]
	}
	return cleaned
}
