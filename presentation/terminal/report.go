package terminal

import (
	"fmt"
	"io"
	"time"

	"bdd_automation/domain/entities"

	"github.com/fatih/color"
)

var (
	passedColor  = color.New(color.FgGreen)
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
	faintColor   = color.New(color.Faint)
)

func statusLabel(status entities.Status) string {
	switch status {
	case entities.StatusPassed:
		return passedColor.Sprint("PASS")
	case entities.StatusFailed:
		return failedColor.Sprint("FAIL")
	default:
		return skippedColor.Sprint("SKIP")
	}
}

// PrintReport - writes a human readable run summary grouped by feature
func PrintReport(w io.Writer, report *entities.RunReport) {
	lastFeature := ""
	for i, sc := range report.Scenarios {
		if i == 0 || sc.Feature != lastFeature {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "Feature: %s\n", sc.Feature)
			lastFeature = sc.Feature
		}

		fmt.Fprintf(w, "  %s %s %s\n", statusLabel(sc.Status), sc.Scenario,
			faintColor.Sprintf("(%s)", sc.Duration.Round(time.Millisecond)))

		for _, step := range sc.Steps {
			line := fmt.Sprintf("    %s %s", statusLabel(step.Status), step.Name)
			if step.Value != "" {
				line += faintColor.Sprintf(" => %q", step.Value)
			}
			fmt.Fprintln(w, line)

			if step.Error != "" {
				fmt.Fprintf(w, "         %s\n", failedColor.Sprint(step.Error))
			}
			for _, shot := range step.Screenshots {
				if shot.Kind == entities.CaptureError {
					fmt.Fprintf(w, "         screenshot: %s\n", shot.Path)
				}
			}
		}

		if sc.Error != "" && !hasFailedStep(sc) {
			fmt.Fprintf(w, "    %s\n", failedColor.Sprint(sc.Error))
			for _, shot := range sc.Screenshots {
				fmt.Fprintf(w, "    screenshot: %s\n", shot.Path)
			}
		}
	}

	passed, failed, skipped := report.Counts()
	fmt.Fprintf(w, "\n%d scenarios (%s, %s, %s) in %s\n",
		len(report.Scenarios),
		passedColor.Sprintf("%d passed", passed),
		failedColor.Sprintf("%d failed", failed),
		skippedColor.Sprintf("%d skipped", skipped),
		report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "run %s\n", report.RunID)
}

func hasFailedStep(sc entities.ScenarioResult) bool {
	for _, step := range sc.Steps {
		if step.Status == entities.StatusFailed {
			return true
		}
	}
	return false
}
