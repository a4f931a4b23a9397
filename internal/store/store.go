// Package store persists the user's transaction tags between runs. Tags are
// keyed by the transaction's position in the reconciled list and saved as a
// YAML document in the data directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cardlens/internal/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileName is the tag file's name inside the data directory.
const FileName = "transaction_tags.yaml"

// TagStore reads and writes the saved tag map.
type TagStore struct {
	path string
}

// NewTagStore returns a store rooted in dataDir.
func NewTagStore(dataDir string) *TagStore {
	return &TagStore{path: filepath.Join(dataDir, FileName)}
}

// Path returns the backing file's path.
func (s *TagStore) Path() string { return s.path }

// Load reads the saved tags. A missing file is not an error; it yields an
// empty map.
func (s *TagStore) Load() (map[int]models.Tags, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[int]models.Tags{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tag file: %w", err)
	}

	tags := map[int]models.Tags{}
	if err := yaml.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("parsing tag file: %w", err)
	}
	log.WithField("count", len(tags)).Debug("Loaded saved tags")
	return tags, nil
}

// Save writes the tag map atomically (temp file then rename). Entries with
// all three tags empty are dropped.
func (s *TagStore) Save(tags map[int]models.Tags) error {
	pruned := map[int]models.Tags{}
	for idx, t := range tags {
		if t.Tag1 == "" && t.Tag2 == "" && t.Tag3 == "" {
			continue
		}
		pruned[idx] = t
	}

	data, err := yaml.Marshal(pruned)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing tag file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing tag file: %w", err)
	}
	log.WithField("count", len(pruned)).Debug("Saved tags")
	return nil
}

// Clear removes the tag file. Clearing an absent file is a no-op.
func (s *TagStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
