package engine

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/benjaminestes/robots"
)

// robotsCache remembers robots.txt verdicts per host for one engine
// session. Sessions are single-task, so no locking is needed.
type robotsCache struct {
	userAgent string
	cache     map[string]*robots.Robots
	client    *http.Client
}

func newRobotsCache(userAgent string) *robotsCache {
	return &robotsCache{
		userAgent: userAgent,
		cache:     make(map[string]*robots.Robots),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Allowed reports whether robots.txt permits fetching url. A missing or
// unparseable robots.txt counts as allowed.
func (rc *robotsCache) Allowed(url string) (allowed bool) {
	allowed = true
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("panic in robots.txt parsing, assuming allowed",
				slog.String("url", url), slog.Any("panic", r))
		}
	}()

	robotsURL, err := robots.Locate(url)
	if err != nil {
		return true
	}

	r, ok := rc.cache[robotsURL]
	if !ok {
		r, err = rc.fetch(robotsURL)
		if err != nil {
			slog.Warn("failed to fetch robots.txt",
				slog.String("url", robotsURL), slog.Any("err", err))
		}
		rc.cache[robotsURL] = r
	}

	if r == nil {
		return true
	}
	return r.Test(rc.userAgent, url)
}

func (rc *robotsCache) fetch(url string) (*robots.Robots, error) {
	resp, err := rc.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	slog.Debug("robots.txt response",
		slog.String("url", url),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_length", len(body)),
	)

	return robots.From(resp.StatusCode, bytes.NewReader(body))
}
