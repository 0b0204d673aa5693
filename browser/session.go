package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// Config configures the persistent browser session.
type Config struct {
	// ProfileDir is the Chrome user-data dir created by the one-time login
	// setup. Launching without it is a startup error, not a degraded mode.
	ProfileDir  string
	DownloadDir string
	ChromePath  string
	Headless    bool
	Timeout     time.Duration
}

func (c Config) timeoutOrDefault() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

// Session owns one Chrome process with one tab. The site UI is stateful,
// so every page interaction is funneled through a single mutex: a script
// paste can never interleave with a navigation or a download trigger.
type Session struct {
	cfg Config

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// NewSession launches Chrome against the persistent profile and routes
// downloads into the output directory. The caller must Close it on every
// exit path, including signal-triggered shutdown.
func NewSession(cfg Config) (*Session, error) {
	if _, err := os.Stat(cfg.ProfileDir); err != nil {
		return nil, fmt.Errorf("chrome profile not found at %s (run the profile setup first): %w", cfg.ProfileDir, err)
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.UserDataDir(cfg.ProfileDir),
	)
	if path := strings.TrimSpace(cfg.ChromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}

	if err := s.Run(context.Background(),
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(cfg.DownloadDir).
			WithEventsEnabled(true),
		chromedp.Navigate("about:blank"),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return s, nil
}

// Run executes chromedp actions under the session mutex with the default
// per-action timeout.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	return s.RunWithTimeout(ctx, s.cfg.timeoutOrDefault(), actions...)
}

// RunWithTimeout executes chromedp actions under the session mutex with an
// explicit timeout. The caller's context cancels the in-flight run.
func (s *Session) RunWithTimeout(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s == nil {
		return fmt.Errorf("browser session is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-runCtx.Done():
			}
		}()
	}
	return chromedp.Run(runCtx, actions...)
}

// Close terminates the tab and the Chrome process, flushing the profile
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tabCancel != nil {
		s.tabCancel()
		s.tabCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
}
