package registry

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/agentx-labs/modreg/internal/descriptor"
	"github.com/bmatcuk/doublestar"
	"github.com/charmbracelet/log"
)

// DefaultIgnore are the entry-name globs skipped during a scan: hidden
// directories and the trailing-tilde folders Unity never imports.
var DefaultIgnore = []string{".*", "*~"}

// Scanner walks the category directories of a project tree and produces one
// Module per immediate child directory.
type Scanner struct {
	Root            string              // absolute project root
	Dirs            map[Category]string // category directory relative to Root; nil uses DefaultDirs
	Ignore          []string            // entry-name globs; nil uses DefaultIgnore
	DescriptorFiles []string            // probe order; nil uses descriptor.DefaultFileNames
	Logger          *log.Logger
}

// Scan reads the filesystem and returns every module currently on disk.
// Categories are visited in canonical order and children in directory-listing
// order. Symlinks to directories count as modules. A missing category
// directory contributes no modules; a malformed descriptor degrades its module
// instead of failing the scan. Names that cannot be persisted are skipped.
func (s *Scanner) Scan() *ScanResult {
	logger := s.logger()
	result := &ScanResult{Modules: []Module{}}

	for _, cat := range knownCategories {
		rel, ok := s.dir(cat)
		if !ok {
			continue
		}
		catDir := filepath.Join(s.Root, filepath.FromSlash(rel))

		entries, err := os.ReadDir(catDir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("skipping unreadable category directory", "category", cat, "dir", catDir, "err", err)
			}
			continue
		}

		for _, entry := range entries {
			if !isDirEntry(catDir, entry) || s.ignored(entry.Name()) {
				continue
			}
			if !utf8.ValidString(entry.Name()) {
				skipped := SkippedEntry{
					Entry:  strconv.Quote(path.Join(filepath.ToSlash(rel), entry.Name())),
					Reason: "directory name is not valid UTF-8",
				}
				logger.Warn("skipping module directory", "entry", skipped.Entry, "reason", skipped.Reason)
				result.Skipped = append(result.Skipped, skipped)
				continue
			}
			m, degraded := s.scanModule(cat, rel, catDir, entry.Name())
			if degraded != nil {
				logger.Warn("degrading module with malformed descriptor",
					"module", degraded.Module, "path", degraded.Path, "err", degraded.Reason)
				result.Degraded = append(result.Degraded, *degraded)
			}
			result.Modules = append(result.Modules, m)
		}
	}

	logger.Debug("scan complete", "root", s.Root, "modules", len(result.Modules), "degraded", len(result.Degraded))
	return result
}

// scanModule builds the Module for one candidate directory.
func (s *Scanner) scanModule(cat Category, relCatDir, catDir, name string) (Module, *DegradedModule) {
	m := Module{
		Name:         name,
		Type:         cat,
		Path:         path.Join(filepath.ToSlash(relCatDir), name),
		Dependencies: []string{},
	}

	d, found, err := descriptor.Load(filepath.Join(catDir, name), s.DescriptorFiles)
	if err != nil {
		degraded := &DegradedModule{Module: name, Reason: err.Error()}
		var perr *descriptor.DescriptorParseError
		if errors.As(err, &perr) {
			degraded.Path = s.relPath(perr.Path)
		}
		return m, degraded
	}
	if !found {
		return m, nil
	}

	m.HasDescriptor = true
	m.Version = d.Version
	m.Description = d.Description
	m.Assembly = d.Assembly
	m.Dependencies = d.Dependencies
	return m, nil
}

// isDirEntry reports whether entry is a directory, following symlinks. A
// dangling link is not a directory.
func isDirEntry(parent string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func (s *Scanner) dir(cat Category) (string, bool) {
	if s.Dirs == nil {
		d, ok := DefaultDirs[cat]
		return d, ok
	}
	d, ok := s.Dirs[cat]
	return d, ok && d != ""
}

// ignored reports whether an entry name matches any ignore glob. Bad patterns
// never match.
func (s *Scanner) ignored(name string) bool {
	patterns := s.Ignore
	if patterns == nil {
		patterns = DefaultIgnore
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *Scanner) relPath(p string) string {
	rel, err := filepath.Rel(s.Root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}
