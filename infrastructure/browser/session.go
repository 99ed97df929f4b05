package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bdd_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type session struct {
	context playwright.BrowserContext
	timeout time.Duration
	logger  logrus.FieldLogger
	onClose func(*session)

	mu    sync.Mutex
	pages map[playwright.Page]*page

	closeOnce sync.Once
	closeErr  error
}

func newSession(bctx playwright.BrowserContext, timeout time.Duration, logger logrus.FieldLogger) *session {
	return &session{
		context: bctx,
		timeout: timeout,
		logger:  logger,
		pages:   make(map[playwright.Page]*page),
	}
}

// wrap - returns the adapter for p, creating it on first use
func (s *session) wrap(p playwright.Page) *page {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adapter, ok := s.pages[p]; ok {
		return adapter
	}
	adapter := newPage(p, s.timeout, s.logger)
	s.pages[p] = adapter
	return adapter
}

// Pages - returns the open pages in creation order
func (s *session) Pages() []interfaces.Page {
	open := s.context.Pages()
	pages := make([]interfaces.Page, 0, len(open))
	for _, p := range open {
		pages = append(pages, s.wrap(p))
	}
	return pages
}

// NewPage - opens a new tab in the session
func (s *session) NewPage(ctx context.Context) (interfaces.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, translateErr(ctx, err)
	}

	p, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", translateErr(ctx, err))
	}
	return s.wrap(p), nil
}

// Close - closes the browser context and all its pages
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.pages = make(map[playwright.Page]*page)
		s.mu.Unlock()

		if err := s.context.Close(); err != nil && !isClosed(err) {
			s.closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		if s.onClose != nil {
			s.onClose(s)
		}
	})
	return s.closeErr
}
