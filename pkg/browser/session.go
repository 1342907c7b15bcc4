package browser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Config is the read-only browser configuration shared by every task.
// It is passed by value and never mutated once execution starts.
type Config struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
	MinDelay       time.Duration
	MaxDelay       time.Duration
}

// stealthJS hides the webdriver flag from pages that sniff for
// automation before deciding what to render.
const stealthJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// Session owns one headless browser with a single tab. Each search task
// opens its own session and must Close it on every exit path; sessions
// are never shared or pooled.
type Session struct {
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	ctx         context.Context
	timeout     time.Duration
	minDelay    time.Duration
	maxDelay    time.Duration
}

// NewSession launches a browser and opens its tab. The returned session
// is ready for navigation.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		cfg.ViewportWidth, cfg.ViewportHeight = 1920, 1080
	}

	// Copy default options to avoid mutating the package-level slice.
	opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
	copy(opts, chromedp.DefaultExecAllocatorOptions[:])
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		allocCancel: allocCancel,
		tabCancel:   tabCancel,
		ctx:         tabCtx,
		timeout:     cfg.Timeout,
		minDelay:    cfg.MinDelay,
		maxDelay:    cfg.MaxDelay,
	}

	// Start the browser with an empty run. The tab context itself must
	// not be wrapped in a timeout: chromedp binds the CDP session to the
	// context passed to the first Run, and canceling a derived context
	// would kill the session.
	startDone := make(chan error, 1)
	go func() {
		startDone <- chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthJS).Do(ctx)
			return err
		}))
	}()
	select {
	case err := <-startDone:
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("start browser: %w", err)
		}
	case <-time.After(cfg.Timeout):
		s.Close()
		return nil, fmt.Errorf("start browser: timed out after %v", cfg.Timeout)
	}

	slog.Debug("browser session started", slog.Bool("headless", cfg.Headless))
	return s, nil
}

// Close shuts the tab and the browser process down. Safe to call more
// than once.
func (s *Session) Close() error {
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

func (s *Session) withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = s.timeout
	}
	return context.WithTimeout(s.ctx, d)
}

// Navigate loads the URL and waits for the document body.
func (s *Session) Navigate(url string) error {
	tctx, cancel := s.withTimeout(0)
	defer cancel()

	return chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

// WaitVisible blocks until the selector matches a visible element or
// the timeout expires.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	tctx, cancel := s.withTimeout(timeout)
	defer cancel()

	return chromedp.Run(tctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
	)
}

// Evaluate runs the expression in the page and unmarshals the value
// into out.
func (s *Session) Evaluate(expression string, out any) error {
	tctx, cancel := s.withTimeout(0)
	defer cancel()

	return chromedp.Run(tctx,
		chromedp.Evaluate(expression, out),
	)
}

// OuterHTML returns the serialized current document.
func (s *Session) OuterHTML() (string, error) {
	tctx, cancel := s.withTimeout(0)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

// HumanDelay sleeps a random interval inside the configured window to
// pace engine interactions like a person would.
func (s *Session) HumanDelay() {
	min, max := s.minDelay, s.maxDelay
	if min <= 0 || max < min {
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min)+1)))
}
