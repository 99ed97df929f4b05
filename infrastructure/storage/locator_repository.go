package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ReferenceMarker prefixes selector strings that name a repository entry
const ReferenceMarker = "@"

// LocatorRepository maps locator keys to selector expressions.
// It is immutable once loaded.
type LocatorRepository struct {
	entries map[string]string
	sources []string
}

var _ interfaces.LocatorRepository = (*LocatorRepository)(nil)

// NewLocatorRepository - creates repository from an in-memory mapping
func NewLocatorRepository(entries map[string]string) *LocatorRepository {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &LocatorRepository{entries: copied}
}

// LoadLocatorRepository - loads and merges every locator source in dir.
// Files are read in lexicographic order, so on duplicate keys the file
// whose name sorts last wins. A missing directory yields an empty repository.
func LoadLocatorRepository(fs afero.Fs, dir string, logger logrus.FieldLogger) (*LocatorRepository, error) {
	repo := &LocatorRepository{entries: make(map[string]string)}

	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat locators directory %s: %v", entities.ErrConfig, dir, err)
	}
	if !exists {
		logger.WithError(entities.ErrConfig).Warnf("Locators directory %s not found, using empty repository", dir)
		return repo, nil
	}

	// afero.ReadDir sorts by name
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read locators directory %s: %v", entities.ErrConfig, dir, err)
	}

	for _, info := range infos {
		if info.IsDir() || !isLocatorSource(info.Name()) {
			continue
		}

		path := filepath.Join(dir, info.Name())
		mapping, err := readLocatorSource(fs, path)
		if err != nil {
			return nil, err
		}

		for key, selector := range mapping {
			if prev, ok := repo.entries[key]; ok && prev != selector {
				logger.Debugf("Locator %q redefined in %s: %q -> %q", key, info.Name(), prev, selector)
			}
			repo.entries[key] = selector
		}
		repo.sources = append(repo.sources, path)
	}

	logger.Debugf("Loaded %d locators from %d sources in %s", len(repo.entries), len(repo.sources), dir)
	return repo, nil
}

// Resolve - resolves "@key" references, passes literal selectors through
func (r *LocatorRepository) Resolve(selector string) (string, error) {
	if !strings.HasPrefix(selector, ReferenceMarker) {
		return selector, nil
	}

	key := strings.TrimPrefix(selector, ReferenceMarker)
	resolved, ok := r.entries[key]
	if !ok {
		return "", entities.NewActionError(entities.ErrLocatorNotFound, "resolve", key, nil)
	}
	return resolved, nil
}

// Lookup - returns the selector stored under key
func (r *LocatorRepository) Lookup(key string) (string, bool) {
	v, ok := r.entries[key]
	return v, ok
}

// Keys - returns all keys in sorted order
func (r *LocatorRepository) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len - returns the number of entries
func (r *LocatorRepository) Len() int {
	return len(r.entries)
}

// Sources - returns the files merged into the repository, in merge order
func (r *LocatorRepository) Sources() []string {
	return append([]string(nil), r.sources...)
}

// isLocatorSource - checks whether a file name is a supported locator source
func isLocatorSource(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// readLocatorSource - reads a flat key -> selector mapping
func readLocatorSource(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read locator source %s: %v", entities.ErrConfig, path, err)
	}

	mapping := make(map[string]string)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &mapping)
	} else {
		err = yaml.Unmarshal(data, &mapping)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid locator source %s: %v", entities.ErrConfig, path, err)
	}

	return mapping, nil
}
