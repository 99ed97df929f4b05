package screenshots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	errorsDirName   = "errors"
	timestampLayout = "20060102_150405"
	dirPerm         = 0o755
	filePerm        = 0o644
)

var (
	invalidChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	underscores  = regexp.MustCompile(`_+`)
)

// Manager writes step and failure screenshots under a base directory:
//
//	<base>/<feature>/<scenario>/step_<timestamp>.png
//	<base>/errors/ERROR_<feature>_<scenario>_<step>_<timestamp>.png
//
// It is safe for concurrent use by scenarios running in parallel.
type Manager struct {
	fs       afero.Fs
	baseDir  string
	errorDir string
	fullPage bool
	now      func() time.Time
	logger   logrus.FieldLogger

	mu   sync.Mutex
	last map[string]time.Time
}

var _ interfaces.ScreenshotRecorder = (*Manager)(nil)

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for file names
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithFullPage captures the full scrollable page instead of the viewport
func WithFullPage(fullPage bool) Option {
	return func(m *Manager) { m.fullPage = fullPage }
}

// New - creates a manager and ensures the base and errors directories exist
func New(fs afero.Fs, baseDir string, logger logrus.FieldLogger, opts ...Option) (*Manager, error) {
	m := &Manager{
		fs:       fs,
		baseDir:  baseDir,
		errorDir: filepath.Join(baseDir, errorsDirName),
		now:      time.Now,
		logger:   logger,
		last:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := fs.MkdirAll(m.errorDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directories: %w", err)
	}

	return m, nil
}

// Sanitize - replaces characters outside [A-Za-z0-9._-] with "_" and collapses runs of "_"
func Sanitize(name string) string {
	return underscores.ReplaceAllString(invalidChars.ReplaceAllString(name, "_"), "_")
}

// segment - sanitizes name for use as a directory. Empty and dot-only
// names become "_" so the path cannot leave the base directory.
func segment(name string) string {
	s := Sanitize(name)
	if strings.Trim(s, ".") == "" {
		return "_"
	}
	return s
}

// BaseDir - returns the screenshot root directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// StepPath - returns the step screenshot path for id at t
func (m *Manager) StepPath(id entities.ScenarioIdentity, t time.Time) string {
	return filepath.Join(m.stepDir(id), fmt.Sprintf("step_%s.png", formatTimestamp(t)))
}

func (m *Manager) stepDir(id entities.ScenarioIdentity) string {
	return filepath.Join(m.baseDir, segment(id.Feature), segment(id.Scenario))
}

// ErrorPath - returns the flat failure screenshot path for id at t
func (m *Manager) ErrorPath(id entities.ScenarioIdentity, t time.Time) string {
	name := fmt.Sprintf("ERROR_%s_%s_%s_%s.png",
		Sanitize(id.Feature), Sanitize(id.Scenario), Sanitize(id.Step), formatTimestamp(t))
	return filepath.Join(m.errorDir, name)
}

// CaptureStep - captures the page after a step. Failures are logged, not returned.
func (m *Manager) CaptureStep(ctx context.Context, id entities.ScenarioIdentity, page interfaces.Capturer) (entities.ScreenshotArtifact, bool) {
	at := m.timestamp(m.stepDir(id))
	return m.capture(ctx, entities.CaptureStep, id, m.StepPath(id, at), at, page)
}

// CaptureError - captures the page after a failed step. Failures are logged, not returned.
func (m *Manager) CaptureError(ctx context.Context, id entities.ScenarioIdentity, page interfaces.Capturer) (entities.ScreenshotArtifact, bool) {
	at := m.timestamp(m.errorDir)
	return m.capture(ctx, entities.CaptureError, id, m.ErrorPath(id, at), at, page)
}

func (m *Manager) capture(ctx context.Context, kind entities.CaptureKind, id entities.ScenarioIdentity, path string, at time.Time, page interfaces.Capturer) (entities.ScreenshotArtifact, bool) {
	log := m.logger.WithFields(logrus.Fields{
		"feature":  id.Feature,
		"scenario": id.Scenario,
		"step":     id.Step,
		"kind":     kind,
	})

	if page == nil {
		log.Warn("Skipping screenshot: no page available")
		return entities.ScreenshotArtifact{}, false
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		log.WithError(err).Warnf("Failed to create screenshot directory %s", filepath.Dir(path))
		return entities.ScreenshotArtifact{}, false
	}

	data, err := page.Screenshot(ctx, m.fullPage)
	if err != nil {
		log.WithError(err).Warn("Failed to capture screenshot")
		return entities.ScreenshotArtifact{}, false
	}

	if err := afero.WriteFile(m.fs, path, data, os.FileMode(filePerm)); err != nil {
		log.WithError(err).Warnf("Failed to write screenshot %s", path)
		return entities.ScreenshotArtifact{}, false
	}

	log.Debugf("Screenshot saved to %s", path)
	return entities.ScreenshotArtifact{
		Path:       path,
		Kind:       kind,
		Identity:   id,
		CapturedAt: at,
	}, true
}

// timestamp - returns a capture time strictly later than the previous one for dir,
// so names stay unique even when the clock does not advance between captures
func (m *Manager) timestamp(dir string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now().Truncate(time.Microsecond)
	if prev, ok := m.last[dir]; ok && !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	m.last[dir] = t
	return t
}

// formatTimestamp - formats t as YYYYMMDD_HHMMSS_ffffff
func formatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s_%06d", t.Format(timestampLayout), t.Nanosecond()/int(time.Microsecond))
}
