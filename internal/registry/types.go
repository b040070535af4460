package registry

import (
	"slices"
	"time"
)

// Category is the kind of a module, determined by the top-level directory it
// was discovered under. The set is closed.
type Category string

const (
	CategoryCore       Category = "core"
	CategoryManager    Category = "manager"
	CategoryShared     Category = "shared"
	CategoryFeature    Category = "feature"
	CategoryLevel      Category = "level"
	CategoryThirdParty Category = "thirdparty"
	CategoryExtension  Category = "extension"
)

// knownCategories lists every category in canonical scan order.
var knownCategories = []Category{
	CategoryCore,
	CategoryManager,
	CategoryShared,
	CategoryFeature,
	CategoryLevel,
	CategoryThirdParty,
	CategoryExtension,
}

// DefaultDirs maps each category to its directory relative to the project root.
var DefaultDirs = map[Category]string{
	CategoryCore:       "Assets/_Core",
	CategoryManager:    "Assets/_Managers",
	CategoryShared:     "Assets/_Shared",
	CategoryFeature:    "Assets/Features",
	CategoryLevel:      "Assets/Levels",
	CategoryThirdParty: "Assets/ThirdParty",
	CategoryExtension:  "Assets/_Extensions",
}

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	return slices.Clone(knownCategories)
}

// CategoryNames returns the category values as plain strings, sorted.
func CategoryNames() []string {
	names := make([]string, len(knownCategories))
	for i, c := range knownCategories {
		names[i] = string(c)
	}
	slices.Sort(names)
	return names
}

// ParseCategory returns the Category for s, or false if s is not in the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if slices.Contains(knownCategories, c) {
		return c, true
	}
	return "", false
}

// Module is one cataloged unit of project structure.
type Module struct {
	Name          string   `json:"name"`
	Type          Category `json:"type"`
	Path          string   `json:"path"` // relative to the project root, slash-separated
	HasDescriptor bool     `json:"has_descriptor"`
	Version       *string  `json:"version"`
	Description   *string  `json:"description"`
	Dependencies  []string `json:"dependencies"` // declared order, never nil
	Assembly      *string  `json:"assembly"`
}

// DependsOn reports whether ref appears verbatim as one of the module's
// dependency entries.
func (m Module) DependsOn(ref string) bool {
	return slices.Contains(m.Dependencies, ref)
}

// clone returns a copy that shares no mutable state with m.
func (m Module) clone() Module {
	c := m
	c.Dependencies = slices.Clone(m.Dependencies)
	if c.Dependencies == nil {
		c.Dependencies = []string{}
	}
	return c
}

// Collision records two scanned modules that share a name. The later one wins.
type Collision struct {
	Name      string `json:"name"`
	Kept      string `json:"kept"`      // path of the module that stayed in the catalog
	Discarded string `json:"discarded"` // path of the module that was replaced
}

// DegradedModule records a module whose descriptor existed but could not be
// parsed. It is cataloged as if it had no descriptor.
type DegradedModule struct {
	Module string `json:"module"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// SkippedEntry records a candidate directory that was not cataloged.
type SkippedEntry struct {
	Entry  string `json:"entry"` // Go-quoted path relative to the project root
	Reason string `json:"reason"`
}

// ScanResult is the outcome of walking the project tree.
type ScanResult struct {
	Modules  []Module
	Degraded []DegradedModule
	Skipped  []SkippedEntry
}

// Names returns the names of the scanned modules in discovery order.
func (r *ScanResult) Names() []string {
	names := make([]string, len(r.Modules))
	for i, m := range r.Modules {
		names[i] = m.Name
	}
	return names
}

// snapshot is the persisted form of the registry.
type snapshot struct {
	SchemaVersion int        `json:"schema_version"`
	ProjectRoot   string     `json:"project_root"`
	LastScan      *time.Time `json:"last_scan"`
	Modules       []Module   `json:"modules"`
}

const snapshotSchemaVersion = 1
