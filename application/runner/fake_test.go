package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
)

// fakeFactory hands out sessions whose single page shows the elements in visible
type fakeFactory struct {
	visible map[string]bool
	err     error

	mu       sync.Mutex
	sessions []*fakeSession
	active   int32
	peak     int32
	hold     time.Duration
}

func (f *fakeFactory) NewSession(context.Context) (interfaces.Session, error) {
	if f.err != nil {
		return nil, f.err
	}

	n := atomic.AddInt32(&f.active, 1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, n) {
			break
		}
	}
	if f.hold > 0 {
		time.Sleep(f.hold)
	}

	s := &fakeSession{factory: f, page: &fakePage{visible: f.visible, dialogs: map[int]func(interfaces.Dialog) bool{}}}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

type fakeSession struct {
	factory *fakeFactory
	page    *fakePage
	closed  bool
}

func (s *fakeSession) Pages() []interfaces.Page { return []interfaces.Page{s.page} }

func (s *fakeSession) NewPage(context.Context) (interfaces.Page, error) {
	return nil, errors.New("not supported")
}

func (s *fakeSession) Close() error {
	s.closed = true
	atomic.AddInt32(&s.factory.active, -1)
	return nil
}

type fakePage struct {
	visible map[string]bool
	url     string
	clicks  []string

	mu      sync.Mutex
	dialogs map[int]func(interfaces.Dialog) bool
	next    int
}

func (p *fakePage) Screenshot(context.Context, bool) ([]byte, error) { return []byte("png"), nil }

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.url = url
	return nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Locator(selector string) interfaces.Element {
	return &fakeElement{page: p, selector: selector, visible: p.visible[selector]}
}

func (p *fakePage) Frame(string) interfaces.Frame { return p }

func (p *fakePage) ExpectURL(context.Context, string) error { return nil }

func (p *fakePage) WaitForLoadState(context.Context, interfaces.LoadState) error { return nil }

func (p *fakePage) Route(interfaces.URLMatcher, func(interfaces.Route)) (func() error, error) {
	return func() error { return nil }, nil
}

func (p *fakePage) WaitForResponse(ctx context.Context, _ interfaces.URLMatcher) (interfaces.Response, error) {
	<-ctx.Done()
	return nil, entities.ErrDriverTimeout
}

func (p *fakePage) Evaluate(context.Context, string, interface{}) (interface{}, error) {
	return nil, nil
}

func (p *fakePage) OnDialog(handler func(interfaces.Dialog) bool) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.dialogs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.dialogs, id)
	}
}

func (p *fakePage) dialogHandlers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.dialogs)
}

func (p *fakePage) WaitForDownload(context.Context, func() error) (string, error) {
	return "", entities.ErrDriverTimeout
}

func (p *fakePage) Close() error { return nil }

type fakeElement struct {
	page     *fakePage
	selector string
	visible  bool
}

func (e *fakeElement) IsVisible(context.Context) (bool, error) { return e.visible, nil }

func (e *fakeElement) WaitVisible(context.Context) error {
	if !e.visible {
		return entities.ErrDriverTimeout
	}
	return nil
}

func (e *fakeElement) ExpectVisible(ctx context.Context) error { return e.WaitVisible(ctx) }

func (e *fakeElement) Click(context.Context) error {
	e.page.clicks = append(e.page.clicks, e.selector)
	return nil
}

func (e *fakeElement) Fill(context.Context, string) error         { return nil }
func (e *fakeElement) SelectOption(context.Context, string) error { return nil }
func (e *fakeElement) Hover(context.Context) error                { return nil }

func (e *fakeElement) Type(context.Context, string, time.Duration) error { return nil }

func (e *fakeElement) TextContent(context.Context) (string, error) { return "text of " + e.selector, nil }

func (e *fakeElement) GetAttribute(context.Context, string) (string, error) { return "", nil }

func (e *fakeElement) SetInputFiles(context.Context, []string) error { return nil }

// fakeRecorder records capture requests instead of writing files
type fakeRecorder struct {
	mu     sync.Mutex
	steps  []entities.ScenarioIdentity
	errors []entities.ScenarioIdentity
}

func (r *fakeRecorder) CaptureStep(_ context.Context, id entities.ScenarioIdentity, _ interfaces.Capturer) (entities.ScreenshotArtifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, id)
	return entities.ScreenshotArtifact{Path: "step.png", Kind: entities.CaptureStep, Identity: id}, true
}

func (r *fakeRecorder) CaptureError(_ context.Context, id entities.ScenarioIdentity, _ interfaces.Capturer) (entities.ScreenshotArtifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, id)
	return entities.ScreenshotArtifact{Path: "error.png", Kind: entities.CaptureError, Identity: id}, true
}
