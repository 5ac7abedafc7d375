package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// RecentsFileName is the record name inside the focus directory.
const RecentsFileName = "recents"

// FileRecentsStore implements domain.RecentsStore with a newline-separated file.
type FileRecentsStore struct {
	path string
	max  int
}

// NewRecentsStore creates a store at path keeping domain.RecentsMax entries.
func NewRecentsStore(path string) *FileRecentsStore {
	return &FileRecentsStore{path: path, max: domain.RecentsMax}
}

// List returns up to max domains, most recent first.
// The directory and an empty file are created on first use.
func (s *FileRecentsStore) List() ([]string, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	existing, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(existing) > s.max {
		existing = existing[:s.max]
	}
	return existing, nil
}

// Update moves domains to the front; the first input element ends up most recent.
func (s *FileRecentsStore) Update(domains []string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	existing, err := s.read()
	if err != nil {
		return err
	}

	for i := len(domains) - 1; i >= 0; i-- {
		existing = moveToFront(existing, domains[i])
	}
	if len(existing) > s.max {
		existing = existing[:s.max]
	}

	content := strings.Join(existing, "\n") + "\n"
	if err := atomicWrite(s.path, []byte(content)); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrRecentsUpdate, s.path, err)
	}
	return nil
}

func (s *FileRecentsStore) ensure() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: cannot create focus directory: %w", domain.ErrRecentsUpdate, err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: cannot initialize %s: %w", domain.ErrRecentsUpdate, s.path, err)
	}
	return f.Close()
}

func (s *FileRecentsStore) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrRecentsUpdate, s.path, err)
	}
	var result []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result, nil
}

func moveToFront(list []string, item string) []string {
	result := make([]string, 0, len(list)+1)
	result = append(result, item)
	for _, d := range list {
		if d != item {
			result = append(result, d)
		}
	}
	return result
}

// Ensure FileRecentsStore implements domain.RecentsStore.
var _ domain.RecentsStore = (*FileRecentsStore)(nil)
