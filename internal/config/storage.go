package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const categoriesFileName = "categories.yaml"

// CategoryStore persists the ordered list of managed category IDs per
// guild. The list is the one piece of state an admin mutates at runtime
// ("categories set"), so it lives outside config.yaml and is re-read at
// the start of every operation rather than cached.
type CategoryStore struct {
	path string
}

// NewCategoryStore creates a store rooted at the config directory.
func NewCategoryStore(configPath string) *CategoryStore {
	return &CategoryStore{path: filepath.Join(configPath, categoriesFileName)}
}

// Path returns the backing file path, for change watching.
func (s *CategoryStore) Path() string {
	return s.path
}

type categoriesFile struct {
	// Guilds maps guild ID to its ordered managed category IDs.
	Guilds map[string][]string `yaml:"guilds"`
}

// Get returns the ordered managed category IDs for a guild. A missing file
// or unknown guild returns an empty list.
func (s *CategoryStore) Get(guildID string) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error loading category store %s: %w", s.path, err)
	}
	return file.Guilds[guildID], nil
}

// Set replaces a guild's managed category list. The write is atomic: the
// file is staged next to its final name and renamed into place, so a
// concurrent reader never sees a torn document.
func (s *CategoryStore) Set(guildID string, categoryIDs []string) error {
	var file categoriesFile
	if data, err := os.ReadFile(s.path); err == nil {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("error loading category store %s: %w", s.path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if file.Guilds == nil {
		file.Guilds = make(map[string][]string)
	}
	file.Guilds[guildID] = categoryIDs

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
