// Package favorites persists per-user favorite book ids in a flat JSON file.
// The file holds a single object mapping user id strings to arrays of catalog
// book ids. Writes are read-modify-write under a process-wide lock.
package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a flat-file favorites store.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store writing to the given path. The parent directory is
// created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// List returns the favorite book ids for a user, in insertion order.
func (s *Store) List(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data[userID], nil
}

// Add appends a book id to the user's favorites, ignoring duplicates.
func (s *Store) Add(userID, bookID string) error {
	return s.update(userID, func(ids []string) []string {
		for _, id := range ids {
			if id == bookID {
				return ids
			}
		}
		return append(ids, bookID)
	})
}

// Remove deletes a book id from the user's favorites. Removing an absent id
// is a no-op.
func (s *Store) Remove(userID, bookID string) error {
	return s.update(userID, func(ids []string) []string {
		out := ids[:0]
		for _, id := range ids {
			if id != bookID {
				out = append(out, id)
			}
		}
		return out
	})
}

// Clear removes all favorites for the user.
func (s *Store) Clear(userID string) error {
	return s.update(userID, func([]string) []string {
		return []string{}
	})
}

func (s *Store) update(userID string, fn func([]string) []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[userID] = fn(data[userID])
	return s.save(data)
}

func (s *Store) load() (map[string][]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("read favorites file: %w", err)
	}

	var data map[string][]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse favorites file: %w", err)
	}
	if data == nil {
		data = map[string][]string{}
	}
	return data, nil
}

func (s *Store) save(data map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}

	// Write via a temp file so a crash mid-write cannot truncate the store.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write favorites file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}
	return nil
}
