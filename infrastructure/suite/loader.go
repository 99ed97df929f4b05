package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// document is the on-disk form of a suite file
type document struct {
	Feature   string `yaml:"feature"`
	Fixtures  string `yaml:"fixtures"`
	Scenarios []struct {
		Name  string              `yaml:"name"`
		Steps []entities.StepSpec `yaml:"steps"`
	} `yaml:"scenarios"`
}

// Loader reads suite files into features
type Loader struct {
	fs     afero.Fs
	logger logrus.FieldLogger
}

// NewLoader - creates a suite loader reading from fs
func NewLoader(fs afero.Fs, logger logrus.FieldLogger) *Loader {
	return &Loader{fs: fs, logger: logger}
}

// LoadAll - loads every suite file in order
func (l *Loader) LoadAll(paths []string) ([]entities.Feature, error) {
	features := make([]entities.Feature, 0, len(paths))
	for _, path := range paths {
		feature, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

// Load - reads one suite file. Steps referencing fixture data get the
// fixture value as their text and value.
func (l *Loader) Load(path string) (entities.Feature, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return entities.Feature{}, fmt.Errorf("%w: failed to read suite %s: %v", entities.ErrConfig, path, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return entities.Feature{}, fmt.Errorf("%w: invalid suite %s: %v", entities.ErrConfig, path, err)
	}

	feature := entities.Feature{
		Name:   doc.Feature,
		Source: path,
	}
	if feature.Name == "" {
		feature.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var fixtures interfaces.FixtureSource
	if doc.Fixtures != "" {
		fixturePath := doc.Fixtures
		if !filepath.IsAbs(fixturePath) {
			fixturePath = filepath.Join(filepath.Dir(path), fixturePath)
		}
		if fixtures, err = storage.LoadFixtures(l.fs, fixturePath); err != nil {
			return entities.Feature{}, fmt.Errorf("suite %s: %w", path, err)
		}
	}

	for i, sc := range doc.Scenarios {
		scenario := entities.Scenario{Name: sc.Name}
		if scenario.Name == "" {
			scenario.Name = fmt.Sprintf("scenario %d", i+1)
		}

		for j, spec := range sc.Steps {
			step, err := buildStep(spec, fixtures)
			if err != nil {
				return entities.Feature{}, fmt.Errorf("suite %s: scenario %q step %d: %w", path, scenario.Name, j+1, err)
			}
			scenario.Steps = append(scenario.Steps, step)
		}

		feature.Scenarios = append(feature.Scenarios, scenario)
	}

	l.logger.WithField("suite", path).Debugf("Loaded feature %q with %d scenarios", feature.Name, len(feature.Scenarios))
	return feature, nil
}

func buildStep(spec entities.StepSpec, fixtures interfaces.FixtureSource) (entities.Step, error) {
	spec, err := applyFixture(spec, fixtures)
	if err != nil {
		return entities.Step{}, err
	}

	action, err := entities.ParseAction(spec)
	if err != nil {
		return entities.Step{}, err
	}
	return entities.Step{Name: spec.Name, Action: action}, nil
}

// applyFixture - fills text and value of spec from its fixture reference
func applyFixture(spec entities.StepSpec, fixtures interfaces.FixtureSource) (entities.StepSpec, error) {
	if spec.Fixture == "" {
		return spec, nil
	}
	if fixtures == nil {
		return spec, fmt.Errorf("%w: fixture %q referenced but suite has no fixtures file", entities.ErrConfig, spec.Fixture)
	}

	value, ok := fixtures.Lookup(spec.Fixture)
	if !ok {
		return spec, fmt.Errorf("%w: fixture %q not found", entities.ErrConfig, spec.Fixture)
	}

	if spec.Text == "" {
		spec.Text = value
	}
	if spec.Value == "" {
		spec.Value = value
	}
	return spec, nil
}
