package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FileStore keeps the mapping in memory and rewrites a JSON file on every change.
type FileStore struct {
	path  string
	mu    sync.Mutex
	roles map[string]string
}

// NewFileStore loads path, or starts empty if the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		roles: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var onDisk map[string]uint64
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for userID, roleID := range onDisk {
		s.roles[userID] = strconv.FormatUint(roleID, 10)
	}

	log.Printf("[Store] Loaded %d vanity assignments from %s", len(s.roles), path)
	return s, nil
}

func (s *FileStore) Get(userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roleID, ok := s.roles[userID]
	return roleID, ok, nil
}

func (s *FileStore) Put(userID, roleID string) error {
	if err := validateRoleID(roleID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.roles[userID]
	s.roles[userID] = roleID
	if err := s.persist(); err != nil {
		if had {
			s.roles[userID] = prev
		} else {
			delete(s.roles, userID)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.roles[userID]
	if !ok {
		return nil
	}

	delete(s.roles, userID)
	if err := s.persist(); err != nil {
		s.roles[userID] = prev
		return err
	}
	return nil
}

func (s *FileStore) All() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.roles))
	for k, v := range s.roles {
		out[k] = v
	}
	return out, nil
}

// persist must be called with s.mu held.
func (s *FileStore) persist() error {
	onDisk := make(map[string]uint64, len(s.roles))
	for userID, roleID := range s.roles {
		id, err := strconv.ParseUint(roleID, 10, 64)
		if err != nil {
			return ErrInvalidRoleID
		}
		onDisk[userID] = id
	}

	data, err := json.MarshalIndent(onDisk, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp uses 0600; keep the existing file's mode, 0644 for a new one
	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
