package storage

import (
	"fmt"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Fixtures holds a JSON test data document addressed by gjson paths
type Fixtures struct {
	path string
	data []byte
}

var _ interfaces.FixtureSource = (*Fixtures)(nil)

// NewFixtures - wraps an in-memory JSON document
func NewFixtures(data []byte) (*Fixtures, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: fixture data is not valid JSON", entities.ErrConfig)
	}
	return &Fixtures{data: data}, nil
}

// LoadFixtures - reads a JSON fixture file
func LoadFixtures(fs afero.Fs, path string) (*Fixtures, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fixtures %s: %v", entities.ErrConfig, path, err)
	}

	f, err := NewFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// Lookup - returns the value at a gjson path such as "registration.email"
func (f *Fixtures) Lookup(path string) (string, bool) {
	res := gjson.GetBytes(f.data, path)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Path - returns the file the fixtures were loaded from
func (f *Fixtures) Path() string {
	return f.path
}
