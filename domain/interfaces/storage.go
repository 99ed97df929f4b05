package interfaces

import (
	"context"

	"bdd_automation/domain/entities"
)

// LocatorRepository resolves symbolic selector references
type LocatorRepository interface {
	// Resolve returns the selector for "@key" references and selector unchanged otherwise
	Resolve(selector string) (string, error)

	// Keys returns all repository keys in sorted order
	Keys() []string
}

// FixtureSource looks up test data values by path
type FixtureSource interface {
	// Lookup returns the value at path and whether it exists
	Lookup(path string) (string, bool)
}

// ScreenshotRecorder captures screenshots for a running scenario.
// Capture failures are logged by the recorder and reported only through ok.
type ScreenshotRecorder interface {
	// CaptureStep records the page state after a step
	CaptureStep(ctx context.Context, id entities.ScenarioIdentity, page Capturer) (entities.ScreenshotArtifact, bool)

	// CaptureError records the page state after a failed step
	CaptureError(ctx context.Context, id entities.ScenarioIdentity, page Capturer) (entities.ScreenshotArtifact, bool)
}
