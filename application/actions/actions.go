package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Timeouts bounds the blocking verbs of the action layer
type Timeouts struct {
	// Action bounds element primitives (click, fill, wait_for, ...)
	Action time.Duration
	// Navigation bounds page loads
	Navigation time.Duration
	// Expect bounds assertion polling (expect_url, expect_visible)
	Expect time.Duration
	// NetworkIdle is the default for wait_for_network_idle and wait_for_response
	NetworkIdle time.Duration
}

// DefaultTimeouts - returns the driver defaults
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Action:      30 * time.Second,
		Navigation:  30 * time.Second,
		Expect:      5 * time.Second,
		NetworkIdle: 5 * time.Second,
	}
}

// Options configures a Layer
type Options struct {
	Fs       afero.Fs
	Timeouts Timeouts
	Logger   logrus.FieldLogger
}

// Layer exposes the typed browser verbs of one scenario. It is bound to a
// single session and tracks the page the verbs act on. The element verbs
// of the embedded Elements act on the page document.
type Layer struct {
	Elements

	session  interfaces.Session
	locators interfaces.LocatorRepository
	fs       afero.Fs
	timeouts Timeouts
	logger   logrus.FieldLogger

	mu      sync.Mutex
	page    interfaces.Page
	handles []detacher
}

type detacher interface {
	Detach() error
}

// New - binds an action layer to session, acting on its first open page
func New(session interfaces.Session, locators interfaces.LocatorRepository, opts Options) (*Layer, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: action layer requires a session", entities.ErrConfig)
	}

	pages := session.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: session has no open page", entities.ErrConfig)
	}

	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	opts.Timeouts = withDefaults(opts.Timeouts)

	l := &Layer{
		session:  session,
		locators: locators,
		fs:       opts.Fs,
		timeouts: opts.Timeouts,
		logger:   opts.Logger,
		page:     pages[0],
	}
	l.Elements = Elements{layer: l}
	return l, nil
}

func withDefaults(t Timeouts) Timeouts {
	def := DefaultTimeouts()
	if t.Action <= 0 {
		t.Action = def.Action
	}
	if t.Navigation <= 0 {
		t.Navigation = def.Navigation
	}
	if t.Expect <= 0 {
		t.Expect = def.Expect
	}
	if t.NetworkIdle <= 0 {
		t.NetworkIdle = def.NetworkIdle
	}
	return t
}

// Page - returns the page the verbs currently act on
func (l *Layer) Page() interfaces.Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Resolve - resolves a selector reference against the locator repository
func (l *Layer) Resolve(selector string) (string, error) {
	if l.locators == nil {
		if strings.HasPrefix(selector, "@") {
			return "", entities.NewActionError(entities.ErrLocatorNotFound, "resolve", strings.TrimPrefix(selector, "@"), nil)
		}
		return selector, nil
	}

	resolved, err := l.locators.Resolve(selector)
	if err != nil {
		var ae *entities.ActionError
		if errors.As(err, &ae) {
			return "", ae
		}
		return "", entities.NewActionError(entities.ErrLocatorNotFound, "resolve", selector, err)
	}
	return resolved, nil
}

// Navigate - loads url in the current page
func (l *Layer) Navigate(ctx context.Context, url string) error {
	ctx, cancel := bounded(ctx, l.timeouts.Navigation)
	defer cancel()

	l.logger.WithField("url", url).Debug("Navigating")
	if err := l.Page().Goto(ctx, url); err != nil {
		return classify("navigate", url, err, entities.ErrActionTimeout)
	}
	return nil
}

// Elements exposes the element verbs of one document: the current page, or
// an iframe within it. Selectors and the frame selector both accept @ references.
type Elements struct {
	layer *Layer
	frame string
}

// Frame - returns the element verbs scoped to the first iframe matching
// selector. An empty selector scopes them to the page itself.
func (l *Layer) Frame(selector string) *Elements {
	if selector == "" {
		return &l.Elements
	}
	return &Elements{layer: l, frame: selector}
}

// locate - resolves selector (and the frame selector) to an element of the
// current page. target names the element in errors.
func (e *Elements) locate(selector string) (el interfaces.Element, target string, err error) {
	resolved, err := e.layer.Resolve(selector)
	if err != nil {
		return nil, "", err
	}
	if e.frame == "" {
		return e.layer.Page().Locator(resolved), resolved, nil
	}

	frame, err := e.layer.Resolve(e.frame)
	if err != nil {
		return nil, "", err
	}
	return e.layer.Page().Frame(frame).Locator(resolved), frame + " >> " + resolved, nil
}

// Click - clicks a visible element
func (e *Elements) Click(ctx context.Context, selector string) error {
	return e.interact(ctx, "click", selector, func(ctx context.Context, el interfaces.Element) error {
		return el.Click(ctx)
	})
}

// Fill - replaces the value of a visible input
func (e *Elements) Fill(ctx context.Context, selector, text string) error {
	return e.interact(ctx, "fill", selector, func(ctx context.Context, el interfaces.Element) error {
		return el.Fill(ctx, text)
	})
}

// Select - selects an option of a visible dropdown by value
func (e *Elements) Select(ctx context.Context, selector, value string) error {
	return e.interact(ctx, "select", selector, func(ctx context.Context, el interfaces.Element) error {
		return el.SelectOption(ctx, value)
	})
}

// Hover - moves the pointer over a visible element
func (e *Elements) Hover(ctx context.Context, selector string) error {
	return e.interact(ctx, "hover", selector, func(ctx context.Context, el interfaces.Element) error {
		return el.Hover(ctx)
	})
}

// Type - types text into a visible element key by key
func (e *Elements) Type(ctx context.Context, selector, text string, delay time.Duration) error {
	return e.interact(ctx, "type", selector, func(ctx context.Context, el interfaces.Element) error {
		return el.Type(ctx, text, delay)
	})
}

// GetText - returns the text content of a visible element
func (e *Elements) GetText(ctx context.Context, selector string) (string, error) {
	var text string
	err := e.interact(ctx, "get_text", selector, func(ctx context.Context, el interfaces.Element) error {
		var err error
		text, err = el.TextContent(ctx)
		return err
	})
	return text, err
}

// GetAttribute - returns an attribute of a visible element
func (e *Elements) GetAttribute(ctx context.Context, selector, name string) (string, error) {
	var value string
	err := e.interact(ctx, "get_attribute", selector, func(ctx context.Context, el interfaces.Element) error {
		var err error
		value, err = el.GetAttribute(ctx, name)
		return err
	})
	return value, err
}

// IsVisible - reports whether an element is visible. A driver timeout reads as not visible.
func (e *Elements) IsVisible(ctx context.Context, selector string) (bool, error) {
	el, target, err := e.locate(selector)
	if err != nil {
		return false, err
	}

	ctx, cancel := bounded(ctx, e.layer.timeouts.Action)
	defer cancel()

	visible, err := el.IsVisible(ctx)
	if err != nil {
		if entities.IsTimeout(err) {
			return false, nil
		}
		return false, classify("is_visible", target, err, entities.ErrElementNotFound)
	}
	return visible, nil
}

// WaitFor - blocks until the element is visible, without the eager visibility check
func (e *Elements) WaitFor(ctx context.Context, selector string) error {
	el, target, err := e.locate(selector)
	if err != nil {
		return err
	}

	ctx, cancel := bounded(ctx, e.layer.timeouts.Action)
	defer cancel()

	e.layer.logger.WithField("selector", target).Debug("Waiting for element")
	if err := el.WaitVisible(ctx); err != nil {
		return classify("wait_for", target, err, entities.ErrElementNotFound)
	}
	return nil
}

// ExpectURL - asserts the page URL becomes url
func (l *Layer) ExpectURL(ctx context.Context, url string) error {
	ctx, cancel := bounded(ctx, l.timeouts.Expect)
	defer cancel()

	if err := l.Page().ExpectURL(ctx, url); err != nil {
		return classify("expect_url", url, err, entities.ErrActionTimeout)
	}
	return nil
}

// ExpectVisible - asserts the element becomes visible
func (e *Elements) ExpectVisible(ctx context.Context, selector string) error {
	el, target, err := e.locate(selector)
	if err != nil {
		return err
	}

	ctx, cancel := bounded(ctx, e.layer.timeouts.Expect)
	defer cancel()

	if err := el.ExpectVisible(ctx); err != nil {
		return classify("expect_visible", target, err, entities.ErrElementNotVisible)
	}
	return nil
}

// interact - resolves selector, checks visibility once and runs do on the element.
// A hidden element fails with ErrElementNotVisible, a driver timeout with ErrElementNotFound.
func (e *Elements) interact(ctx context.Context, op, selector string, do func(context.Context, interfaces.Element) error) error {
	el, target, err := e.locate(selector)
	if err != nil {
		return err
	}

	ctx, cancel := bounded(ctx, e.layer.timeouts.Action)
	defer cancel()

	e.layer.logger.WithFields(logrus.Fields{"action": op, "selector": target}).Debug("Performing action")

	visible, err := el.IsVisible(ctx)
	if err != nil {
		return classify(op, target, err, entities.ErrElementNotFound)
	}
	if !visible {
		return entities.NewActionError(entities.ErrElementNotVisible, op, target, nil)
	}

	if err := do(ctx, el); err != nil {
		return classify(op, target, err, entities.ErrElementNotFound)
	}
	return nil
}

// classify - maps a driver error to exactly one error kind: onTimeout for
// timeouts, ErrDriver otherwise. Errors that already carry a kind pass through.
func classify(op, target string, err error, onTimeout error) error {
	var ae *entities.ActionError
	if errors.As(err, &ae) {
		return ae
	}
	if entities.IsTimeout(err) {
		return entities.NewActionError(onTimeout, op, target, err)
	}
	return entities.NewActionError(entities.ErrDriver, op, target, err)
}

// bounded - derives a context that expires after d unless ctx expires first
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
