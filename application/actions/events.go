package actions

import (
	"context"
	"sync"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DialogOptions configures how native dialogs are answered
type DialogOptions struct {
	// Accept accepts the dialog; otherwise it is dismissed
	Accept bool
	// PromptText is entered into prompt dialogs on accept
	PromptText string
	// Once detaches the handler after the first dialog
	Once bool
}

// DialogHandler answers native dialogs until detached
type DialogHandler struct {
	opts   DialogOptions
	logger logrus.FieldLogger

	mu          sync.Mutex
	active      bool
	handled     int
	unsubscribe func()
}

// Handled - returns the number of dialogs answered so far
func (h *DialogHandler) Handled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handled
}

// Active - reports whether the handler still answers dialogs
func (h *DialogHandler) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Detach - stops answering dialogs. Calling it more than once is a no-op.
func (h *DialogHandler) Detach() error {
	h.mu.Lock()
	h.active = false
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

// handle - answers d and reports true, or reports false once the handler is spent
func (h *DialogHandler) handle(d interfaces.Dialog) bool {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return false
	}
	h.handled++
	if h.opts.Once {
		h.active = false
	}
	h.mu.Unlock()

	log := h.logger.WithFields(logrus.Fields{"dialog": d.Type(), "message": d.Message()})

	var err error
	if h.opts.Accept {
		err = d.Accept(h.opts.PromptText)
		log.Debug("Dialog accepted")
	} else {
		err = d.Dismiss()
		log.Debug("Dialog dismissed")
	}
	if err != nil {
		log.WithError(err).Warn("Failed to answer dialog")
	}

	if h.opts.Once {
		_ = h.Detach()
	}
	return true
}

// HandleDialog - answers native dialogs of the current page according to opts
// until the returned handler is detached (or after one dialog with Once)
func (l *Layer) HandleDialog(opts DialogOptions) *DialogHandler {
	h := &DialogHandler{
		opts:   opts,
		logger: l.logger,
		active: true,
	}
	unsubscribe := l.Page().OnDialog(h.handle)

	// a one-shot handler may already be spent before the subscription is stored
	h.mu.Lock()
	if h.active {
		h.unsubscribe = unsubscribe
		unsubscribe = nil
	}
	h.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}

	l.track(h)
	return h
}

// WaitForDownload - runs trigger and waits for the download it starts.
// Returns the local path of the downloaded file.
func (l *Layer) WaitForDownload(ctx context.Context, trigger func(context.Context) error) (string, error) {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	path, err := l.Page().WaitForDownload(ctx, func() error {
		if trigger == nil {
			return nil
		}
		return trigger(ctx)
	})
	if err != nil {
		return "", classify("wait_for_download", "", err, entities.ErrActionTimeout)
	}

	l.logger.WithField("path", path).Debug("Download finished")
	return path, nil
}
