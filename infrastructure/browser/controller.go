package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Supported browser engines
const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"
)

// Options configures the launched browser and the sessions created from it
type Options struct {
	Browser  string
	Headless bool
	SlowMo   time.Duration
	// Install downloads the driver and browser before launch
	Install bool

	ViewportWidth  int
	ViewportHeight int
	BaseURL        string

	// DefaultTimeout applies to driver calls made without a context deadline
	DefaultTimeout time.Duration
}

// Launcher owns the playwright driver and one browser process.
// Every session it creates is an isolated browser context.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  logrus.FieldLogger

	mu       sync.Mutex
	sessions map[*session]struct{}
}

var _ interfaces.SessionFactory = (*Launcher)(nil)

// Launch - starts playwright and launches the configured browser
func Launch(opts Options, logger logrus.FieldLogger) (*Launcher, error) {
	if opts.Browser == "" {
		opts.Browser = Chromium
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 30 * time.Second
	}

	if opts.Install {
		logger.Infof("Installing playwright driver and %s", opts.Browser)
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{opts.Browser}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := selectBrowser(pw, opts.Browser)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
	}

	logger.WithFields(logrus.Fields{
		"browser":  opts.Browser,
		"headless": opts.Headless,
		"version":  browser.Version(),
	}).Info("Browser launched")

	return &Launcher{
		pw:       pw,
		browser:  browser,
		opts:     opts,
		logger:   logger,
		sessions: make(map[*session]struct{}),
	}, nil
}

func selectBrowser(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case Chromium:
		return pw.Chromium, nil
	case Firefox:
		return pw.Firefox, nil
	case WebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("%w: unsupported browser %q", entities.ErrConfig, name)
	}
}

// NewSession - creates an isolated browser context with one open page
func (l *Launcher) NewSession(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOptions := playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	}
	if l.opts.ViewportWidth > 0 && l.opts.ViewportHeight > 0 {
		contextOptions.Viewport = &playwright.Size{
			Width:  l.opts.ViewportWidth,
			Height: l.opts.ViewportHeight,
		}
	}
	if l.opts.BaseURL != "" {
		contextOptions.BaseURL = playwright.String(l.opts.BaseURL)
	}

	bctx, err := l.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(l.opts.DefaultTimeout.Milliseconds()))

	if _, err := bctx.NewPage(); err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s := newSession(bctx, l.opts.DefaultTimeout, l.logger)
	s.onClose = l.forget

	l.mu.Lock()
	l.sessions[s] = struct{}{}
	l.mu.Unlock()

	return s, nil
}

func (l *Launcher) forget(s *session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, s)
}

// Close - closes leftover sessions, the browser and the driver
func (l *Launcher) Close() error {
	l.mu.Lock()
	leftover := make([]*session, 0, len(l.sessions))
	for s := range l.sessions {
		leftover = append(leftover, s)
	}
	l.mu.Unlock()

	var closeErr error
	for _, s := range leftover {
		if err := s.Close(); err != nil {
			closeErr = joinClose(closeErr, "failed to close session", err)
		}
	}

	if l.browser != nil {
		if err := l.browser.Close(); err != nil {
			closeErr = joinClose(closeErr, "failed to close browser", err)
		}
		l.browser = nil
	}

	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			closeErr = joinClose(closeErr, "failed to stop playwright", err)
		}
		l.pw = nil
	}

	return closeErr
}

// joinClose - appends a close error unless the target was already gone
func joinClose(prev error, msg string, err error) error {
	if isClosed(err) {
		return prev
	}
	if prev != nil {
		return fmt.Errorf("%v; %s: %w", prev, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return true
	}
	return strings.Contains(err.Error(), "closed")
}
