package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bdd_automation/domain/entities"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every environment variable, e.g. BDD_BROWSER
const Prefix = "bdd"

// Config holds the harness settings read from the environment
type Config struct {
	Browser        string        `envconfig:"BROWSER" default:"chromium"`
	Headless       bool          `envconfig:"HEADLESS" default:"true"`
	SlowMo         time.Duration `envconfig:"SLOW_MO" default:"0s"`
	ViewportWidth  int           `envconfig:"VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight int           `envconfig:"VIEWPORT_HEIGHT" default:"1080"`
	BaseURL        string        `envconfig:"BASE_URL"`
	InstallBrowser bool          `envconfig:"INSTALL_BROWSERS" default:"false"`

	LocatorsDir         string `envconfig:"LOCATORS_DIR" default:"locators"`
	ScreenshotsDir      string `envconfig:"SCREENSHOTS_DIR" default:"screenshots"`
	FullPageScreenshots bool   `envconfig:"FULL_PAGE_SCREENSHOTS" default:"false"`

	ActionTimeout      time.Duration `envconfig:"ACTION_TIMEOUT" default:"30s"`
	NavigationTimeout  time.Duration `envconfig:"NAVIGATION_TIMEOUT" default:"30s"`
	ExpectTimeout      time.Duration `envconfig:"EXPECT_TIMEOUT" default:"5s"`
	NetworkIdleTimeout time.Duration `envconfig:"NETWORK_IDLE_TIMEOUT" default:"5s"`

	Parallel int `envconfig:"PARALLEL" default:"1"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load - reads an optional .env file, then the BDD_* environment
func Load(logger logrus.FieldLogger, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// .env file is optional
		logger.Debug(".env file not found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrConfig, err)
	}
	return &cfg, nil
}

// Validate - checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Browser) {
	case "chromium", "firefox", "webkit":
	default:
		problems = append(problems, fmt.Sprintf("unsupported browser %q", c.Browser))
	}

	if c.Parallel < 1 {
		problems = append(problems, fmt.Sprintf("parallel must be at least 1, got %d", c.Parallel))
	}
	if c.ViewportWidth < 1 || c.ViewportHeight < 1 {
		problems = append(problems, fmt.Sprintf("invalid viewport %dx%d", c.ViewportWidth, c.ViewportHeight))
	}

	for name, d := range map[string]time.Duration{
		"action timeout":       c.ActionTimeout,
		"navigation timeout":   c.NavigationTimeout,
		"expect timeout":       c.ExpectTimeout,
		"network idle timeout": c.NetworkIdleTimeout,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %s", name, d))
		}
	}
	if c.SlowMo < 0 {
		problems = append(problems, "slow mo must not be negative")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unsupported log format %q", c.LogFormat))
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", entities.ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}

// NewLogger - builds the logger described by the config
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
