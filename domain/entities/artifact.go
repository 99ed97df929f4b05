package entities

import "time"

// CaptureKind distinguishes per-step screenshots from failure screenshots
type CaptureKind string

const (
	CaptureStep  CaptureKind = "step"
	CaptureError CaptureKind = "error"
)

// ScreenshotArtifact is a screenshot written to disk. It is never modified after capture.
type ScreenshotArtifact struct {
	Path       string           `json:"path"`
	Kind       CaptureKind      `json:"kind"`
	Identity   ScenarioIdentity `json:"identity"`
	CapturedAt time.Time        `json:"captured_at"`
}
