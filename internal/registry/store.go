package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Store holds the authoritative in-memory catalog and its persisted copy.
// It is not safe for concurrent use; the controller serializes access.
type Store struct {
	projectRoot string
	file        string

	modules  []Module
	index    map[string]int // name -> position in modules
	lastScan *time.Time

	now func() time.Time
}

// NewStore returns an empty store that persists to file.
func NewStore(projectRoot, file string) *Store {
	return &Store{
		projectRoot: projectRoot,
		file:        file,
		modules:     []Module{},
		index:       map[string]int{},
		now:         time.Now,
	}
}

// SetClock overrides the time source used by Replace.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// ProjectRoot returns the filesystem root the catalog is relative to.
func (s *Store) ProjectRoot() string { return s.projectRoot }

// File returns the path of the persisted registry.
func (s *Store) File() string { return s.file }

// LastScan returns the time of the most recent successful scan, or nil.
func (s *Store) LastScan() *time.Time {
	if s.lastScan == nil {
		return nil
	}
	t := *s.lastScan
	return &t
}

// Len returns the number of cataloged modules.
func (s *Store) Len() int { return len(s.modules) }

// Replace discards the current catalog and installs modules in its place,
// stamping LastScan. Duplicate names keep the first position and the last
// content; each duplicate is reported as a Collision.
func (s *Store) Replace(modules []Module) []Collision {
	next := make([]Module, 0, len(modules))
	index := make(map[string]int, len(modules))
	var collisions []Collision

	for _, m := range modules {
		m = m.clone()
		if i, ok := index[m.Name]; ok {
			collisions = append(collisions, Collision{
				Name:      m.Name,
				Kept:      m.Path,
				Discarded: next[i].Path,
			})
			next[i] = m
			continue
		}
		index[m.Name] = len(next)
		next = append(next, m)
	}

	now := s.now().UTC()
	s.modules, s.index, s.lastScan = next, index, &now
	return collisions
}

// Persist writes the catalog and LastScan to the registry file. The write goes
// to a temp file in the same directory, which is then renamed into place.
func (s *Store) Persist() error {
	snap := snapshot{
		SchemaVersion: snapshotSchemaVersion,
		ProjectRoot:   s.projectRoot,
		LastScan:      s.lastScan,
		Modules:       s.modules,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.file, Op: "encode", Err: err}
	}

	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &PersistenceError{Path: s.file, Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.file)+".*.tmp")
	if err != nil {
		return &PersistenceError{Path: s.file, Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Path: s.file, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: s.file, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: s.file, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, s.file); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Path: s.file, Op: "rename", Err: err}
	}
	return nil
}

// ErrNoRegistry is returned by Load when no registry file exists yet.
var ErrNoRegistry = errors.New("no persisted registry")

// Load restores the persisted catalog. On any failure the store is left empty
// and the error describes why; callers treat it as non-fatal.
func (s *Store) Load() error {
	s.modules, s.index, s.lastScan = []Module{}, map[string]int{}, nil

	data, err := os.ReadFile(s.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoRegistry
		}
		return fmt.Errorf("reading registry %s: %w", s.file, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding registry %s: %w", s.file, err)
	}
	if snap.SchemaVersion != snapshotSchemaVersion {
		return fmt.Errorf("registry %s has unsupported schema version %d", s.file, snap.SchemaVersion)
	}

	modules := make([]Module, 0, len(snap.Modules))
	index := make(map[string]int, len(snap.Modules))
	for _, m := range snap.Modules {
		if _, ok := ParseCategory(string(m.Type)); !ok {
			return fmt.Errorf("registry %s: module %q has unknown type %q", s.file, m.Name, m.Type)
		}
		if _, dup := index[m.Name]; dup {
			return fmt.Errorf("registry %s: duplicate module %q", s.file, m.Name)
		}
		index[m.Name] = len(modules)
		modules = append(modules, m.clone())
	}

	s.modules, s.index, s.lastScan = modules, index, snap.LastScan
	return nil
}

// Get returns the module with the exact name.
func (s *Store) Get(name string) (Module, bool) {
	i, ok := s.index[name]
	if !ok {
		return Module{}, false
	}
	return s.modules[i].clone(), true
}

// Filter returns every module of the given type in catalog order.
func (s *Store) Filter(t Category) []Module {
	result := []Module{}
	for _, m := range s.modules {
		if m.Type == t {
			result = append(result, m.clone())
		}
	}
	return result
}

// All returns every module in catalog order.
func (s *Store) All() []Module {
	result := make([]Module, len(s.modules))
	for i, m := range s.modules {
		result[i] = m.clone()
	}
	return result
}

// Names returns the cataloged module names in catalog order.
func (s *Store) Names() []string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = m.Name
	}
	return names
}
