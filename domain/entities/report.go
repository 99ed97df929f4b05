package entities

import "time"

// Status represents the outcome of a step or scenario
type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records a single executed (or skipped) step
type StepResult struct {
	Name        string               `json:"name"`
	Action      ActionType           `json:"action"`
	Status      Status               `json:"status"`
	Value       string               `json:"value,omitempty"`
	Error       string               `json:"error,omitempty"`
	Err         error                `json:"-"`
	Screenshots []ScreenshotArtifact `json:"screenshots,omitempty"`
	Duration    time.Duration        `json:"duration"`
}

// ScenarioResult records a scenario run in its own session.
// Screenshots holds captures taken outside any step, e.g. on a failing hook.
type ScenarioResult struct {
	Feature     string               `json:"feature"`
	Scenario    string               `json:"scenario"`
	SessionID   string               `json:"session_id"`
	Status      Status               `json:"status"`
	Steps       []StepResult         `json:"steps"`
	Error       string               `json:"error,omitempty"`
	Screenshots []ScreenshotArtifact `json:"screenshots,omitempty"`
	Duration    time.Duration        `json:"duration"`
}

// RunReport aggregates all scenario results of one run
type RunReport struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// Counts returns the number of passed, failed and skipped scenarios
func (r *RunReport) Counts() (passed, failed, skipped int) {
	for _, s := range r.Scenarios {
		switch s.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		default:
			skipped++
		}
	}
	return passed, failed, skipped
}

// Failed reports whether any scenario failed
func (r *RunReport) Failed() bool {
	_, failed, _ := r.Counts()
	return failed > 0
}
