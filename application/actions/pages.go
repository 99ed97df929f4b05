package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bdd_automation/domain/entities"

	"github.com/spf13/afero"
)

// PageCount - returns the number of open pages in the session
func (l *Layer) PageCount() int {
	return len(l.session.Pages())
}

// SwitchPage - makes the page at index (zero-based, creation order) current
func (l *Layer) SwitchPage(index int) error {
	pages := l.session.Pages()
	if index < 0 || index >= len(pages) {
		return entities.NewActionError(entities.ErrIndexOutOfRange, "switch_page", fmt.Sprint(index),
			fmt.Errorf("%d pages open", len(pages)))
	}

	l.mu.Lock()
	l.page = pages[index]
	l.mu.Unlock()

	l.logger.WithField("index", index).Debug("Switched page")
	return nil
}

// NewPage - opens a new page in the session and makes it current
func (l *Layer) NewPage(ctx context.Context) error {
	ctx, cancel := bounded(ctx, l.timeouts.Navigation)
	defer cancel()

	page, err := l.session.NewPage(ctx)
	if err != nil {
		return classify("new_page", "", err, entities.ErrActionTimeout)
	}

	l.mu.Lock()
	l.page = page
	l.mu.Unlock()
	return nil
}

// Screenshot - captures the current page to path, creating parent directories.
// Any failure is reported as ErrActionTimeout.
func (l *Layer) Screenshot(ctx context.Context, path string, fullPage bool) error {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return entities.NewActionError(entities.ErrActionTimeout, "screenshot", path, err)
	}

	data, err := l.Page().Screenshot(ctx, fullPage)
	if err != nil {
		return entities.NewActionError(entities.ErrActionTimeout, "screenshot", path, err)
	}

	if err := afero.WriteFile(l.fs, path, data, os.FileMode(0o644)); err != nil {
		return entities.NewActionError(entities.ErrActionTimeout, "screenshot", path, err)
	}
	return nil
}
