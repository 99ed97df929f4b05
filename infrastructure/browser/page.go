package browser

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bdd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type page struct {
	page    playwright.Page
	timeout time.Duration
	logger  logrus.FieldLogger
	expect  playwright.PlaywrightAssertions

	mu         sync.Mutex
	dialogs    []dialogHandler
	nextDialog int
	listening  bool
}

type dialogHandler struct {
	id     int
	handle func(interfaces.Dialog) bool
}

var _ interfaces.Page = (*page)(nil)

func newPage(p playwright.Page, timeout time.Duration, logger logrus.FieldLogger) *page {
	return &page{
		page:    p,
		timeout: timeout,
		logger:  logger,
		expect:  playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds())),
	}
}

func (p *page) Goto(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout: timeoutMs(ctx, p.timeout),
	})
	return translateErr(ctx, err)
}

func (p *page) URL() string {
	return p.page.URL()
}

func (p *page) Locator(selector string) interfaces.Element {
	return &element{
		locator: p.page.Locator(selector),
		timeout: p.timeout,
		expect:  p.expect,
	}
}

func (p *page) Frame(selector string) interfaces.Frame {
	return &frame{
		frame:   p.page.Locator(selector).First().ContentFrame(),
		timeout: p.timeout,
		expect:  p.expect,
	}
}

func (p *page) ExpectURL(ctx context.Context, url string) error {
	err := p.expect.Page(p.page).ToHaveURL(url, playwright.PageAssertionsToHaveURLOptions{
		Timeout: timeoutMs(ctx, p.timeout),
	})
	return translateAssertion(ctx, err)
}

func (p *page) WaitForLoadState(ctx context.Context, state interfaces.LoadState) error {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: timeoutMs(ctx, p.timeout),
	})
	return translateErr(ctx, err)
}

func loadState(state interfaces.LoadState) *playwright.LoadState {
	switch state {
	case interfaces.LoadStateDOMContentLoaded:
		return playwright.LoadStateDomcontentloaded
	case interfaces.LoadStateNetworkIdle:
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateLoad
	}
}

// Route - playwright offers no way to unroute a predicate matcher, so a
// removed route stays registered but lets requests through untouched
func (p *page) Route(match interfaces.URLMatcher, handler func(interfaces.Route)) (func() error, error) {
	var active atomic.Bool
	active.Store(true)

	err := p.page.Route(func(url string) bool { return match(url) }, func(r playwright.Route) {
		if !active.Load() {
			if err := r.Continue(); err != nil {
				p.logger.WithError(err).Debug("Failed to continue request of removed route")
			}
			return
		}
		handler(&route{route: r})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register route: %w", err)
	}

	return func() error {
		active.Store(false)
		return nil
	}, nil
}

func (p *page) WaitForResponse(ctx context.Context, match interfaces.URLMatcher) (interfaces.Response, error) {
	resp, err := p.page.ExpectResponse(func(url string) bool { return match(url) }, func() error { return nil },
		playwright.PageExpectResponseOptions{Timeout: timeoutMs(ctx, p.timeout)})
	if err != nil {
		return nil, translateErr(ctx, err)
	}
	return resp, nil
}

func (p *page) Evaluate(ctx context.Context, script string, arg interface{}) (interface{}, error) {
	var (
		result interface{}
		err    error
	)
	if arg == nil {
		result, err = p.page.Evaluate(script)
	} else {
		result, err = p.page.Evaluate(script, arg)
	}
	return result, translateErr(ctx, err)
}

// OnDialog - subscribes handler to native dialogs. Handlers are offered a
// dialog in subscription order until one answers it; a dialog arriving while
// no handler answers is dismissed, as playwright does by default.
func (p *page) OnDialog(handler func(interfaces.Dialog) bool) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.listening {
		p.page.OnDialog(p.dispatchDialog)
		p.listening = true
	}

	id := p.nextDialog
	p.nextDialog++
	p.dialogs = append(p.dialogs, dialogHandler{id: id, handle: handler})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, h := range p.dialogs {
			if h.id == id {
				p.dialogs = append(p.dialogs[:i:i], p.dialogs[i+1:]...)
				return
			}
		}
	}
}

func (p *page) dispatchDialog(d playwright.Dialog) {
	p.mu.Lock()
	handlers := make([]dialogHandler, len(p.dialogs))
	copy(handlers, p.dialogs)
	p.mu.Unlock()

	// a dialog can be answered once; the earliest subscribed active handler wins
	for _, h := range handlers {
		if h.handle(&dialog{dialog: d}) {
			return
		}
	}

	if err := d.Dismiss(); err != nil {
		p.logger.WithError(err).Debug("Failed to dismiss unhandled dialog")
	}
}

func (p *page) WaitForDownload(ctx context.Context, trigger func() error) (string, error) {
	download, err := p.page.ExpectDownload(trigger, playwright.PageExpectDownloadOptions{
		Timeout: timeoutMs(ctx, p.timeout),
	})
	if err != nil {
		return "", translateErr(ctx, err)
	}

	path, err := download.Path()
	if err != nil {
		return "", translateErr(ctx, fmt.Errorf("failed to save download %s: %w", download.SuggestedFilename(), err))
	}
	return path, nil
}

func (p *page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	data, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
		Timeout:  timeoutMs(ctx, p.timeout),
	})
	return data, translateErr(ctx, err)
}

func (p *page) Close() error {
	if err := p.page.Close(); err != nil && !isClosed(err) {
		return err
	}
	return nil
}
