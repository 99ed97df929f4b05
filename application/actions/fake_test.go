package actions

import (
	"context"
	"sync"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
)

type fakeSession struct {
	mu     sync.Mutex
	pages  []*fakePage
	newErr error
	closed bool
}

func newFakeSession(pages ...*fakePage) *fakeSession {
	if len(pages) == 0 {
		pages = []*fakePage{newFakePage("about:blank")}
	}
	return &fakeSession{pages: pages}
}

func (s *fakeSession) Pages() []interfaces.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interfaces.Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = p
	}
	return out
}

func (s *fakeSession) NewPage(context.Context) (interfaces.Page, error) {
	if s.newErr != nil {
		return nil, s.newErr
	}
	p := newFakePage("about:blank")
	s.mu.Lock()
	s.pages = append(s.pages, p)
	s.mu.Unlock()
	return p, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeRouteEntry struct {
	match   interfaces.URLMatcher
	handler func(interfaces.Route)
	removed bool
}

type fakePage struct {
	mu sync.Mutex

	url      string
	elements map[string]*fakeElement

	gotoErr      error
	expectURLErr error
	loadStateErr error
	evalErr      error
	shotErr      error
	shot         []byte
	response     interfaces.Response
	responseErr  error
	download     string
	downloadErr  error

	visited   []string
	evaluated []string
	storage   map[string]string
	routes    []*fakeRouteEntry
	dialogs   []fakeDialogEntry
	nextID    int
	frames    map[string]*fakePage
	fullPage  []bool
	triggered int
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:      url,
		elements: make(map[string]*fakeElement),
		storage:  make(map[string]string),
		frames:   make(map[string]*fakePage),
		shot:     []byte("png"),
	}
}

func (p *fakePage) add(selector string, el *fakeElement) *fakePage {
	p.elements[selector] = el
	return p
}

func (p *fakePage) Screenshot(_ context.Context, fullPage bool) ([]byte, error) {
	p.fullPage = append(p.fullPage, fullPage)
	return p.shot, p.shotErr
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.visited = append(p.visited, url)
	if p.gotoErr != nil {
		return p.gotoErr
	}
	p.url = url
	return nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Locator(selector string) interfaces.Element {
	if el, ok := p.elements[selector]; ok {
		return el
	}
	// a selector matching nothing is not visible and times out on interaction
	el := &fakeElement{actionErr: entities.ErrDriverTimeout}
	p.elements[selector] = el
	return el
}

// withFrame - makes frame the document of iframes matching selector
func (p *fakePage) withFrame(selector string, frame *fakePage) *fakePage {
	p.frames[selector] = frame
	return p
}

func (p *fakePage) Frame(selector string) interfaces.Frame {
	if f, ok := p.frames[selector]; ok {
		return f
	}
	// a missing iframe contains nothing
	f := newFakePage("about:blank")
	p.frames[selector] = f
	return f
}

func (p *fakePage) ExpectURL(_ context.Context, url string) error {
	if p.expectURLErr != nil {
		return p.expectURLErr
	}
	if p.url != url {
		return entities.ErrDriverTimeout
	}
	return nil
}

func (p *fakePage) WaitForLoadState(ctx context.Context, _ interfaces.LoadState) error {
	if p.loadStateErr != nil {
		return p.loadStateErr
	}
	return ctx.Err()
}

func (p *fakePage) Route(match interfaces.URLMatcher, handler func(interfaces.Route)) (func() error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry := &fakeRouteEntry{match: match, handler: handler}
	p.routes = append(p.routes, entry)
	return func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		entry.removed = true
		return nil
	}, nil
}

// request - simulates a request and returns the number of handlers it reached
func (p *fakePage) request(url string) int {
	p.mu.Lock()
	var handlers []func(interfaces.Route)
	for _, r := range p.routes {
		if !r.removed && r.match(url) {
			handlers = append(handlers, r.handler)
		}
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(&fakeRoute{url: url})
	}
	return len(handlers)
}

func (p *fakePage) WaitForResponse(ctx context.Context, match interfaces.URLMatcher) (interfaces.Response, error) {
	if p.responseErr != nil {
		return nil, p.responseErr
	}
	if p.response != nil && match(p.response.URL()) {
		return p.response, nil
	}
	<-ctx.Done()
	return nil, entities.ErrDriverTimeout
}

func (p *fakePage) Evaluate(_ context.Context, script string, arg interface{}) (interface{}, error) {
	p.evaluated = append(p.evaluated, script)
	if p.evalErr != nil {
		return nil, p.evalErr
	}

	switch script {
	case scriptGetItem:
		v, ok := p.storage[arg.(string)]
		if !ok {
			return nil, nil
		}
		return v, nil
	case scriptSetItem:
		kv := arg.([]string)
		p.storage[kv[0]] = kv[1]
		return nil, nil
	case scriptClear:
		p.storage = make(map[string]string)
		return nil, nil
	case scriptDump:
		m := make(map[string]interface{}, len(p.storage))
		for k, v := range p.storage {
			m[k] = v
		}
		return m, nil
	}
	return nil, nil
}

type fakeDialogEntry struct {
	id     int
	handle func(interfaces.Dialog) bool
}

func (p *fakePage) OnDialog(handler func(interfaces.Dialog) bool) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.dialogs = append(p.dialogs, fakeDialogEntry{id: id, handle: handler})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, e := range p.dialogs {
			if e.id == id {
				p.dialogs = append(p.dialogs[:i:i], p.dialogs[i+1:]...)
				return
			}
		}
	}
}

// dialog - opens a native dialog, offering it to the handlers in subscription
// order, and returns 1 when a handler answered it. Unanswered dialogs are dismissed.
func (p *fakePage) dialog(d interfaces.Dialog) int {
	p.mu.Lock()
	handlers := make([]fakeDialogEntry, len(p.dialogs))
	copy(handlers, p.dialogs)
	p.mu.Unlock()

	for _, h := range handlers {
		if h.handle(d) {
			return 1
		}
	}
	_ = d.Dismiss()
	return 0
}

func (p *fakePage) WaitForDownload(_ context.Context, trigger func() error) (string, error) {
	if err := trigger(); err != nil {
		return "", err
	}
	p.triggered++
	return p.download, p.downloadErr
}

func (p *fakePage) Close() error { return nil }

type fakeElement struct {
	visible    bool
	visibleErr error
	waitErr    error
	expectErr  error
	actionErr  error
	text       string
	attrs      map[string]string

	calls []string
	typed []string
	files []string
	delay time.Duration
}

func visibleElement() *fakeElement { return &fakeElement{visible: true} }

func hiddenElement() *fakeElement { return &fakeElement{} }

func (e *fakeElement) record(call string) error {
	e.calls = append(e.calls, call)
	return e.actionErr
}

func (e *fakeElement) IsVisible(context.Context) (bool, error) {
	return e.visible, e.visibleErr
}

func (e *fakeElement) WaitVisible(context.Context) error {
	e.calls = append(e.calls, "wait")
	if e.waitErr != nil {
		return e.waitErr
	}
	if !e.visible {
		return entities.ErrDriverTimeout
	}
	return nil
}

func (e *fakeElement) ExpectVisible(context.Context) error {
	e.calls = append(e.calls, "expect")
	if e.expectErr != nil {
		return e.expectErr
	}
	if !e.visible {
		return entities.ErrDriverTimeout
	}
	return nil
}

func (e *fakeElement) Click(context.Context) error { return e.record("click") }

func (e *fakeElement) Fill(_ context.Context, text string) error {
	e.typed = append(e.typed, text)
	return e.record("fill")
}

func (e *fakeElement) SelectOption(_ context.Context, value string) error {
	e.typed = append(e.typed, value)
	return e.record("select")
}

func (e *fakeElement) Hover(context.Context) error { return e.record("hover") }

func (e *fakeElement) Type(_ context.Context, text string, delay time.Duration) error {
	e.typed = append(e.typed, text)
	e.delay = delay
	return e.record("type")
}

func (e *fakeElement) TextContent(context.Context) (string, error) {
	return e.text, e.record("text")
}

func (e *fakeElement) GetAttribute(_ context.Context, name string) (string, error) {
	return e.attrs[name], e.record("attribute")
}

func (e *fakeElement) SetInputFiles(_ context.Context, paths []string) error {
	e.files = append(e.files, paths...)
	return e.record("files")
}

type fakeDialog struct {
	kind      string
	accepted  []string
	dismissed int
}

func (d *fakeDialog) Type() string    { return d.kind }
func (d *fakeDialog) Message() string { return "are you sure?" }

func (d *fakeDialog) Accept(promptText string) error {
	d.accepted = append(d.accepted, promptText)
	return nil
}

func (d *fakeDialog) Dismiss() error {
	d.dismissed++
	return nil
}

type fakeRequest struct{ url string }

func (r fakeRequest) URL() string    { return r.url }
func (r fakeRequest) Method() string { return "GET" }

type fakeRoute struct {
	url       string
	continued bool
}

func (r *fakeRoute) Request() interfaces.Request { return fakeRequest{url: r.url} }
func (r *fakeRoute) Continue() error             { r.continued = true; return nil }
func (r *fakeRoute) Abort() error                { return nil }
func (r *fakeRoute) Fulfill(int, string, string) error {
	return nil
}

type fakeResponse struct {
	url    string
	status int
}

func (r fakeResponse) URL() string           { return r.url }
func (r fakeResponse) Status() int           { return r.status }
func (r fakeResponse) Text() (string, error) { return "", nil }
