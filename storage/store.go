// Package storage is the durable record of punishments, warnings, temp bans
// and configuration. Each concern lives in its own JSON file which is loaded
// and rewritten as a whole snapshot; writes go to a temp file first and are
// renamed over the target so a crash never leaves a half-written file behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	logsFile     = "logs.json"
	warningsFile = "warnings.json"
	tempBansFile = "temp_bans.json"
	configFile   = "config.json"
	rolesFile    = "allowed_roles.json"
)

// Store serializes every read and write of the data files behind one lock.
// The files are small and operations infrequent, so the coarse lock is the
// simplest way to make read-modify-write cycles safe against each other.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store writes under.
func (s *Store) Dir() string {
	return s.dir
}

// load reads one data file into v. A missing, empty or corrupt file is treated
// as an empty store: the error is logged and v is left at its zero value, so a
// damaged file costs history but never takes the process down. Caller holds mu.
func (s *Store) load(name string, v interface{}) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("Error reading %s, treating as empty: %v", path, err)
		}
		return
	}
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Errorf("Error parsing %s, treating as empty: %v", path, err)
	}
}

// save writes v to one data file atomically. Caller holds mu.
func (s *Store) save(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling %s: %w", name, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error renaming %s over %s: %w", tmp, path, err)
	}
	return nil
}
