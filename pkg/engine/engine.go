package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/result"
)

var ErrUnknownEngine = errors.New("unknown search engine")

// Engine is the capability one search source exposes: deterministic URL
// construction, a live query, and best-effort content extraction. An
// engine owns a browser session for its lifetime and must be closed.
type Engine interface {
	Name() string
	SearchURL(query string) string
	Search(ctx context.Context, query string, numResults int) ([]result.SearchResult, error)
	ExtractTextContent(ctx context.Context, url string) (string, error)
	Close() error
}

// Factory opens a fresh engine with its own browser session.
type Factory func(cfg browser.Config) (Engine, error)

var registry = map[string]Factory{
	"google":     NewGoogle,
	"bing":       NewBing,
	"duckduckgo": NewDuckDuckGo,
	"ddg":        NewDuckDuckGo,
}

// New constructs the named engine. The name is case-insensitive and
// "ddg" aliases duckduckgo.
func New(name string, cfg browser.Config) (Engine, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownEngine, name, strings.Join(Names(), ", "))
	}
	return factory(cfg)
}

// Normalize validates an engine name and resolves aliases.
func Normalize(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "ddg" {
		n = "duckduckgo"
	}
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownEngine, name, strings.Join(Names(), ", "))
	}
	return n, nil
}

// Names lists the canonical engine names, aliases excluded.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		if name == "ddg" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
