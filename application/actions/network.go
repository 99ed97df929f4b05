package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
)

// Interceptor is a registered request route. It stays active until Detach.
type Interceptor struct {
	pattern string
	remove  func() error

	once sync.Once
	err  error
}

// Pattern - returns the URL glob the interceptor matches
func (i *Interceptor) Pattern() string {
	return i.pattern
}

// Detach - removes the route. Calling it more than once is a no-op.
func (i *Interceptor) Detach() error {
	i.once.Do(func() {
		if i.remove != nil {
			i.err = i.remove()
		}
	})
	return i.err
}

// MatchURL - compiles a URL glob pattern. "*" matches within a path segment,
// "**" across segments, "?" one character and "{a,b}" alternatives.
func MatchURL(pattern string) (interfaces.URLMatcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty URL pattern", entities.ErrConfig)
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL pattern %q: %v", entities.ErrConfig, pattern, err)
	}
	return g.Match, nil
}

// Upload - sets files on a file input, in the given order.
// File inputs are usually hidden, so no visibility check is made.
func (e *Elements) Upload(ctx context.Context, selector string, paths ...string) error {
	if len(paths) == 0 {
		return entities.NewActionError(entities.ErrConfig, "upload", selector, errors.New("no files given"))
	}

	el, target, err := e.locate(selector)
	if err != nil {
		return err
	}

	ctx, cancel := bounded(ctx, e.layer.timeouts.Action)
	defer cancel()

	e.layer.logger.WithFields(logrus.Fields{"selector": target, "files": paths}).Debug("Uploading files")
	if err := el.SetInputFiles(ctx, paths); err != nil {
		return classify("upload", target, err, entities.ErrElementNotFound)
	}
	return nil
}

// WaitForNetworkIdle - blocks until the page has no network activity.
// A zero timeout uses the configured default.
func (l *Layer) WaitForNetworkIdle(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = l.timeouts.NetworkIdle
	}

	ctx, cancel := bounded(ctx, timeout)
	defer cancel()

	if err := l.Page().WaitForLoadState(ctx, interfaces.LoadStateNetworkIdle); err != nil {
		return classify("wait_for_network_idle", timeout.String(), err, entities.ErrActionTimeout)
	}
	return nil
}

// Intercept - routes every request matching pattern to handler until the
// returned interceptor is detached. The action layer detaches it at the latest in DetachAll.
func (l *Layer) Intercept(pattern string, handler func(interfaces.Route)) (*Interceptor, error) {
	match, err := MatchURL(pattern)
	if err != nil {
		return nil, entities.NewActionError(entities.ErrConfig, "intercept", pattern, err)
	}

	remove, err := l.Page().Route(match, handler)
	if err != nil {
		return nil, classify("intercept", pattern, err, entities.ErrActionTimeout)
	}

	i := &Interceptor{pattern: pattern, remove: remove}
	l.track(i)

	l.logger.WithField("pattern", pattern).Debug("Request interceptor attached")
	return i, nil
}

// WaitForResponse - blocks for the next response whose URL matches pattern.
// A zero timeout uses the configured default.
func (l *Layer) WaitForResponse(ctx context.Context, pattern string, timeout time.Duration) (interfaces.Response, error) {
	match, err := MatchURL(pattern)
	if err != nil {
		return nil, entities.NewActionError(entities.ErrConfig, "wait_for_response", pattern, err)
	}

	if timeout <= 0 {
		timeout = l.timeouts.NetworkIdle
	}

	ctx, cancel := bounded(ctx, timeout)
	defer cancel()

	resp, err := l.Page().WaitForResponse(ctx, match)
	if err != nil {
		return nil, classify("wait_for_response", pattern, err, entities.ErrActionTimeout)
	}
	return resp, nil
}

func (l *Layer) track(h detacher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handles = append(l.handles, h)
}

// DetachAll - detaches every interceptor and dialog handler registered through the layer
func (l *Layer) DetachAll() error {
	l.mu.Lock()
	handles := l.handles
	l.handles = nil
	l.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Detach(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to detach %d handlers: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
