package runner

import (
	"context"
	"fmt"
	"time"

	"bdd_automation/application/actions"
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// beforeScenarioStep names the failure screenshot of a failing BeforeScenario hook
const beforeScenarioStep = "before scenario"

// LocatorLoader builds the locator repository for one scenario
type LocatorLoader func() (interfaces.LocatorRepository, error)

// Scope is what hooks see of a running scenario
type Scope struct {
	Identity  entities.ScenarioIdentity
	SessionID string
	Actions   *actions.Layer
	Logger    logrus.FieldLogger
}

// Hooks run at fixed points of every scenario. All are optional.
type Hooks struct {
	// BeforeScenario runs after the session is ready; an error fails the scenario
	BeforeScenario func(ctx context.Context, scope *Scope) error
	// AfterStep runs after every executed step, screenshots included
	AfterStep func(ctx context.Context, scope *Scope, step *entities.StepResult)
	// AfterScenario runs before the session is closed
	AfterScenario func(ctx context.Context, scope *Scope, result *entities.ScenarioResult)
}

// Config wires the runner's collaborators
type Config struct {
	Sessions    interfaces.SessionFactory
	Screenshots interfaces.ScreenshotRecorder
	Locators    LocatorLoader
	Actions     actions.Options
	Hooks       Hooks
	// Parallel is the number of scenarios run at once
	Parallel int
	Logger   logrus.FieldLogger
}

// Runner runs scenarios, each in its own browser session
type Runner struct {
	cfg Config
	now func() time.Time
}

// New - creates a runner
func New(cfg Config) (*Runner, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("%w: runner requires a session factory", entities.ErrConfig)
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Runner{cfg: cfg, now: time.Now}, nil
}

// Run - runs every scenario of features and collects the results in input order.
// Scenario failures are reported, not returned; the error is set only when ctx ends the run early.
func (r *Runner) Run(ctx context.Context, features []entities.Feature) (*entities.RunReport, error) {
	report := &entities.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
	}

	type job struct {
		feature  string
		scenario entities.Scenario
	}
	var jobs []job
	for _, f := range features {
		for _, s := range f.Scenarios {
			jobs = append(jobs, job{feature: f.Name, scenario: s})
		}
	}

	log := r.cfg.Logger.WithField("run_id", report.RunID)
	log.Infof("Running %d scenarios from %d features (parallel %d)", len(jobs), len(features), r.cfg.Parallel)

	results := make([]entities.ScenarioResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.cfg.Parallel)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = r.runScenario(ctx, j.feature, j.scenario)
			return nil
		})
	}
	_ = g.Wait()

	report.Scenarios = results
	report.Duration = r.now().Sub(report.StartedAt)

	passed, failed, skipped := report.Counts()
	log.WithFields(logrus.Fields{
		"passed":  passed,
		"failed":  failed,
		"skipped": skipped,
	}).Infof("Run finished in %s", report.Duration.Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("run canceled: %w", err)
	}
	return report, nil
}

// runScenario - runs one scenario in a fresh session. The first failing
// step fails the scenario and the remaining steps are skipped.
func (r *Runner) runScenario(ctx context.Context, feature string, scenario entities.Scenario) (result entities.ScenarioResult) {
	start := r.now()
	sessionID := uuid.NewString()
	log := r.cfg.Logger.WithFields(logrus.Fields{
		"feature":    feature,
		"scenario":   scenario.Name,
		"session_id": sessionID,
	})

	result = entities.ScenarioResult{
		Feature:   feature,
		Scenario:  scenario.Name,
		SessionID: sessionID,
		Status:    entities.StatusPending,
		Steps:     make([]entities.StepResult, len(scenario.Steps)),
	}
	for i, step := range scenario.Steps {
		result.Steps[i] = entities.StepResult{Name: stepName(step), Status: entities.StatusSkipped}
		if step.Action != nil {
			result.Steps[i].Action = step.Action.Type()
		}
	}
	defer func() {
		result.Duration = r.now().Sub(start)
	}()

	fail := func(err error) entities.ScenarioResult {
		result.Status = entities.StatusFailed
		result.Error = err.Error()
		log.WithError(err).Error("Scenario failed")
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("scenario not started: %w", err))
	}

	log.Info("Starting scenario")

	session, err := r.cfg.Sessions.NewSession(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to create session: %w", err))
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close session")
		}
	}()

	var locators interfaces.LocatorRepository
	if r.cfg.Locators != nil {
		if locators, err = r.cfg.Locators(); err != nil {
			return fail(fmt.Errorf("failed to load locators: %w", err))
		}
	}

	opts := r.cfg.Actions
	opts.Logger = log
	layer, err := actions.New(session, locators, opts)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := layer.DetachAll(); err != nil {
			log.WithError(err).Warn("Failed to detach handlers")
		}
	}()

	scope := &Scope{
		Identity:  entities.ScenarioIdentity{Feature: feature, Scenario: scenario.Name},
		SessionID: sessionID,
		Actions:   layer,
		Logger:    log,
	}

	if h := r.cfg.Hooks.AfterScenario; h != nil {
		defer func() {
			result.Duration = r.now().Sub(start)
			h(ctx, scope, &result)
		}()
	}

	if h := r.cfg.Hooks.BeforeScenario; h != nil {
		if err := h(ctx, scope); err != nil {
			scope.Identity = scope.Identity.WithStep(beforeScenarioStep)
			if r.cfg.Screenshots != nil {
				if shot, ok := r.cfg.Screenshots.CaptureError(ctx, scope.Identity, layer.Page()); ok {
					result.Screenshots = append(result.Screenshots, shot)
				}
			}
			return fail(fmt.Errorf("before scenario hook: %w", err))
		}
	}

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("scenario interrupted before step %q: %w", result.Steps[i].Name, err))
		}

		res := &result.Steps[i]
		scope.Identity = scope.Identity.WithStep(res.Name)

		if err := r.runStep(ctx, scope, step, res); err != nil {
			return fail(fmt.Errorf("step %q: %w", res.Name, err))
		}
	}

	result.Status = entities.StatusPassed
	log.Infof("Scenario passed in %s", r.now().Sub(start).Round(time.Millisecond))
	return result
}

// runStep - executes one step and captures its screenshots
func (r *Runner) runStep(ctx context.Context, scope *Scope, step entities.Step, res *entities.StepResult) error {
	log := scope.Logger.WithFields(logrus.Fields{"step": res.Name, "action": res.Action})
	start := r.now()

	value, err := scope.Actions.Execute(ctx, step.Action)
	res.Duration = r.now().Sub(start)
	res.Value = value

	if r.cfg.Screenshots != nil {
		if shot, ok := r.cfg.Screenshots.CaptureStep(ctx, scope.Identity, scope.Actions.Page()); ok {
			res.Screenshots = append(res.Screenshots, shot)
		}
		if err != nil {
			if shot, ok := r.cfg.Screenshots.CaptureError(ctx, scope.Identity, scope.Actions.Page()); ok {
				res.Screenshots = append(res.Screenshots, shot)
			}
		}
	}

	if err != nil {
		res.Status = entities.StatusFailed
		res.Error = err.Error()
		res.Err = err
		log.WithError(err).Error("Step failed")
	} else {
		res.Status = entities.StatusPassed
		log.Debug("Step passed")
	}

	if h := r.cfg.Hooks.AfterStep; h != nil {
		h(ctx, scope, res)
	}
	return err
}

func stepName(step entities.Step) string {
	if step.Name != "" {
		return step.Name
	}
	if step.Action != nil {
		return string(step.Action.Type())
	}
	return "unnamed step"
}
