package interfaces

import (
	"context"
	"time"
)

// LoadState is a page load milestone a driver can wait for
type LoadState string

const (
	LoadStateLoad             LoadState = "load"
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

// URLMatcher reports whether a request or response URL matches a pattern
type URLMatcher func(url string) bool

// Session is an isolated browser context owning one or more pages
type Session interface {
	// Pages returns the currently open pages in creation order
	Pages() []Page

	// NewPage opens a new page (tab) in the session
	NewPage(ctx context.Context) (Page, error)

	// Close destroys the session and all its pages
	Close() error
}

// Capturer produces a PNG image of a page
type Capturer interface {
	// Screenshot captures the viewport, or the whole page when fullPage is set
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
}

// Page is a single navigable document within a session.
// Blocking methods honor the context deadline as their timeout;
// a timeout is reported as entities.ErrDriverTimeout.
type Page interface {
	Capturer

	// Goto navigates the page to url
	Goto(ctx context.Context, url string) error

	// URL returns the current page URL
	URL() string

	// Locator returns a lazy handle for elements matching selector
	Locator(selector string) Element

	// Frame returns the document of the first iframe matching selector
	Frame(selector string) Frame

	// ExpectURL polls until the page URL equals url
	ExpectURL(ctx context.Context, url string) error

	// WaitForLoadState waits until the page reaches state
	WaitForLoadState(ctx context.Context, state LoadState) error

	// Route registers handler for every request matching match.
	// The returned function removes the route.
	Route(match URLMatcher, handler func(Route)) (func() error, error)

	// WaitForResponse blocks until a response matching match arrives
	WaitForResponse(ctx context.Context, match URLMatcher) (Response, error)

	// Evaluate runs a script in the page and returns its JSON-decoded result
	Evaluate(ctx context.Context, script string, arg interface{}) (interface{}, error)

	// OnDialog subscribes handler to native dialogs. Each dialog is offered to
	// the handlers in subscription order until one reports it answered it;
	// a dialog no handler answers is dismissed. The returned function unsubscribes handler.
	OnDialog(handler func(Dialog) bool) func()

	// WaitForDownload runs trigger and waits for the download it starts,
	// returning the local file path
	WaitForDownload(ctx context.Context, trigger func() error) (string, error)

	// Close closes the page
	Close() error
}

// Frame is the document of an iframe. Matching the iframe is lazy:
// a missing iframe surfaces as a timeout of the element verbs.
type Frame interface {
	// Locator returns a lazy handle for elements matching selector inside the frame
	Locator(selector string) Element
}

// Element is a lazy reference to the elements matched by a selector
type Element interface {
	// IsVisible checks visibility without waiting
	IsVisible(ctx context.Context) (bool, error)

	// WaitVisible blocks until the element is attached and visible
	WaitVisible(ctx context.Context) error

	// ExpectVisible polls until the element is visible (assertion semantics)
	ExpectVisible(ctx context.Context) error

	Click(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	SelectOption(ctx context.Context, value string) error
	Hover(ctx context.Context) error

	// Type presses each character of text with delay between keystrokes
	Type(ctx context.Context, text string, delay time.Duration) error

	TextContent(ctx context.Context) (string, error)
	GetAttribute(ctx context.Context, name string) (string, error)

	// SetInputFiles sets the files of a file input, in order
	SetInputFiles(ctx context.Context, paths []string) error
}

// Dialog is a native alert, confirm, prompt or beforeunload dialog
type Dialog interface {
	Type() string
	Message() string
	Accept(promptText string) error
	Dismiss() error
}

// Request is an in-flight network request
type Request interface {
	URL() string
	Method() string
}

// Route is an intercepted request awaiting a decision
type Route interface {
	Request() Request
	Continue() error
	Abort() error
	Fulfill(status int, contentType, body string) error
}

// Response is a received network response
type Response interface {
	URL() string
	Status() int
	Text() (string, error)
}

// SessionFactory creates browser sessions
type SessionFactory interface {
	// NewSession creates an isolated session with a single open page
	NewSession(ctx context.Context) (Session, error)
}

