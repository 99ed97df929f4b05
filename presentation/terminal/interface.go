package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"bdd_automation/application/actions"
	"bdd_automation/application/runner"
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/browser"
	"bdd_automation/infrastructure/config"
	"bdd_automation/infrastructure/screenshots"
	"bdd_automation/infrastructure/storage"
	"bdd_automation/infrastructure/suite"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ErrScenariosFailed is returned by the run command when any scenario failed
var ErrScenariosFailed = errors.New("scenarios failed")

// sessionLauncher starts the browser for a run
type sessionLauncher func(browser.Options, logrus.FieldLogger) (launchedBrowser, error)

type launchedBrowser interface {
	interfaces.SessionFactory
	Close() error
}

type TerminalInterface struct {
	cfg    *config.Config
	logger *logrus.Logger
	fs     afero.Fs
	out    io.Writer
	launch sessionLauncher
}

// NewTerminalInterface - loads configuration and builds the logger
func NewTerminalInterface() (*TerminalInterface, error) {
	bootstrap := logrus.New()
	bootstrap.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(bootstrap)
	if err != nil {
		return nil, err
	}

	return &TerminalInterface{
		cfg:    cfg,
		logger: cfg.NewLogger(),
		fs:     afero.NewOsFs(),
		out:    os.Stdout,
		launch: func(opts browser.Options, logger logrus.FieldLogger) (launchedBrowser, error) {
			return browser.Launch(opts, logger)
		},
	}, nil
}

// Run - executes the command line given in args
func (t *TerminalInterface) Run(args []string) error {
	root := t.rootCommand()
	root.SetArgs(args)
	root.SetOut(t.out)
	return root.Execute()
}

func (t *TerminalInterface) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bddrun",
		Short:         "Run browser scenarios described in YAML suites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&t.cfg.LocatorsDir, "locators-dir", t.cfg.LocatorsDir, "directory of locator files")

	root.AddCommand(t.runCommand(), t.locatorsCommand())
	return root
}

func (t *TerminalInterface) runCommand() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "run <suite.yaml>...",
		Short: "Run every scenario of the given suites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := t.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report, err := t.runSuites(ctx, args)
			if report != nil {
				PrintReport(cmd.OutOrStdout(), report)
				if reportPath != "" {
					if werr := t.writeReport(reportPath, report); werr != nil {
						t.logger.WithError(werr).Error("Failed to write report")
					}
				}
			}
			if err != nil {
				return err
			}
			if report.Failed() {
				return ErrScenariosFailed
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&t.cfg.Parallel, "parallel", t.cfg.Parallel, "number of scenarios run at once")
	flags.BoolVar(&t.cfg.Headless, "headless", t.cfg.Headless, "run the browser without a window")
	flags.StringVar(&t.cfg.Browser, "browser", t.cfg.Browser, "browser engine: chromium, firefox or webkit")
	flags.StringVar(&t.cfg.ScreenshotsDir, "screenshots-dir", t.cfg.ScreenshotsDir, "screenshot output directory")
	flags.StringVar(&t.cfg.BaseURL, "base-url", t.cfg.BaseURL, "base URL for relative navigation")
	flags.StringVar(&reportPath, "report", "", "write the run report as JSON to this file")
	return cmd
}

func (t *TerminalInterface) runSuites(ctx context.Context, paths []string) (*entities.RunReport, error) {
	features, err := suite.NewLoader(t.fs, t.logger).LoadAll(paths)
	if err != nil {
		return nil, err
	}

	shots, err := screenshots.New(t.fs, t.cfg.ScreenshotsDir, t.logger,
		screenshots.WithFullPage(t.cfg.FullPageScreenshots))
	if err != nil {
		return nil, err
	}

	launcher, err := t.launch(browser.Options{
		Browser:        t.cfg.Browser,
		Headless:       t.cfg.Headless,
		SlowMo:         t.cfg.SlowMo,
		Install:        t.cfg.InstallBrowser,
		ViewportWidth:  t.cfg.ViewportWidth,
		ViewportHeight: t.cfg.ViewportHeight,
		BaseURL:        t.cfg.BaseURL,
		DefaultTimeout: t.cfg.ActionTimeout,
	}, t.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			t.logger.WithError(err).Warn("Failed to close browser")
		}
	}()

	r, err := runner.New(runner.Config{
		Sessions:    launcher,
		Screenshots: shots,
		Locators:    t.loadLocators,
		Actions: actions.Options{
			Fs: t.fs,
			Timeouts: actions.Timeouts{
				Action:      t.cfg.ActionTimeout,
				Navigation:  t.cfg.NavigationTimeout,
				Expect:      t.cfg.ExpectTimeout,
				NetworkIdle: t.cfg.NetworkIdleTimeout,
			},
		},
		Parallel: t.cfg.Parallel,
		Logger:   t.logger,
	})
	if err != nil {
		return nil, err
	}

	return r.Run(ctx, features)
}

func (t *TerminalInterface) loadLocators() (interfaces.LocatorRepository, error) {
	repo, err := storage.LoadLocatorRepository(t.fs, t.cfg.LocatorsDir, t.logger)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (t *TerminalInterface) writeReport(path string, report *entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return afero.WriteFile(t.fs, path, data, 0o644)
}

func (t *TerminalInterface) locatorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locators",
		Short: "Inspect the locator repository",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every locator key and its selector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.LoadLocatorRepository(t.fs, t.cfg.LocatorsDir, t.logger)
			if err != nil {
				return err
			}
			for _, key := range repo.Keys() {
				selector, _ := repo.Lookup(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", passedColor.Sprint(key), selector)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <selector>",
		Short: "Resolve a selector or @reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.LoadLocatorRepository(t.fs, t.cfg.LocatorsDir, t.logger)
			if err != nil {
				return err
			}
			selector, err := repo.Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), selector)
			return nil
		},
	})

	return cmd
}
