// Package controller orchestrates the registry engine for callers. It owns one
// Scanner and one Store, serializes refreshes against queries, and translates
// domain errors into tagged Results.
package controller

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/modreg/internal/branding"
	"github.com/agentx-labs/modreg/internal/config"
	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/agentx-labs/modreg/internal/report"
	"github.com/charmbracelet/log"
)

// Options configures a Controller.
type Options struct {
	Settings *config.Settings
	Logger   *log.Logger      // nil discards log output
	Now      func() time.Time // nil uses time.Now
}

// Controller is the only entry point the outside world calls.
type Controller struct {
	mu       sync.RWMutex
	settings *config.Settings
	scanner  *registry.Scanner
	store    *registry.Store
	logger   *log.Logger
}

// New builds a controller and restores the persisted registry. A missing or
// unreadable registry file starts the catalog empty.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := opts.Settings

	store := registry.NewStore(s.ProjectRoot, s.RegistryFile)
	if opts.Now != nil {
		store.SetClock(opts.Now)
	}
	if err := store.Load(); err != nil {
		if errors.Is(err, registry.ErrNoRegistry) {
			logger.Debug("no persisted registry, starting empty", "file", s.RegistryFile)
		} else {
			logger.Warn("ignoring unreadable registry, starting empty", "err", err)
		}
	}

	return &Controller{
		settings: s,
		scanner: &registry.Scanner{
			Root:            s.ProjectRoot,
			Dirs:            s.Dirs,
			Ignore:          s.Ignore,
			DescriptorFiles: s.DescriptorFiles,
			Logger:          logger,
		},
		store:  store,
		logger: logger,
	}
}

// Settings returns the configuration the controller was built with.
func (c *Controller) Settings() *config.Settings { return c.settings }

// ListModules returns modules of the requested types, or every module when
// types is empty.
func (c *Controller) ListModules(types []string) Result[ModuleList] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	modules, err := c.store.ListByTypes(types)
	if err != nil {
		c.logger.Warn("rejected module list request", "types", types, "err", err)
		return fail[ModuleList](failureFrom(err, nil))
	}
	return succeed(ModuleList{Count: len(modules), Modules: modules})
}

// GetModule returns one module by exact name.
func (c *Controller) GetModule(name string) Result[ModuleLookup] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.store.GetModule(name)
	if !ok {
		return succeed(ModuleLookup{Name: name})
	}
	return succeed(ModuleLookup{Name: name, Found: true, Module: &m})
}

// GetDependencies returns the declared dependency entries of a module.
func (c *Controller) GetDependencies(name string) Result[DependencyList] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	deps, ok := c.store.Dependencies(name)
	if !ok {
		return succeed(DependencyList{Module: name, Dependencies: []string{}})
	}
	return succeed(DependencyList{Module: name, Found: true, Dependencies: deps, Count: len(deps)})
}

// FindDependents returns the modules that declare ref as a dependency.
func (c *Controller) FindDependents(ref string) Result[DependentList] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	deps := c.store.FindDependents(ref)
	return succeed(DependentList{Reference: ref, Dependents: deps, Count: len(deps)})
}

// Refresh rescans the project, replaces the catalog and persists it. The whole
// sequence runs under the write lock. If persisting fails the new catalog is
// still in effect and the failure carries the summary in its Details.
func (c *Controller) Refresh() Result[RefreshSummary] {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.store.Names()
	scan := c.scanner.Scan()
	collisions := c.store.Replace(scan.Modules)
	after := c.store.Names()

	for _, col := range collisions {
		c.logger.Warn("duplicate module name, keeping the later one",
			"name", col.Name, "kept", col.Kept, "discarded", col.Discarded)
	}

	diff := registry.Diff(before, after)
	counts := diff.Counts()
	summary := RefreshSummary{
		Summary: RefreshCounts{
			Added:     counts.Added,
			Removed:   counts.Removed,
			Unchanged: counts.Unchanged,
			Total:     c.store.Len(),
		},
		AddedModules:   diff.Added,
		RemovedModules: diff.Removed,
		LastScan:       *c.store.LastScan(),
		Collisions:     collisions,
		Degraded:       scan.Degraded,
		Skipped:        scan.Skipped,
	}

	if err := c.store.Persist(); err != nil {
		c.logger.Error("registry refreshed but not persisted", "err", err)
		return fail[RefreshSummary](failureFrom(err, summary))
	}

	c.logger.Info("registry refreshed",
		"added", counts.Added, "removed", counts.Removed, "unchanged", counts.Unchanged)
	return succeed(summary)
}

// Status returns registry metadata and statistics.
func (c *Controller) Status() Result[RegistryStatus] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byType := make(map[string]int)
	for cat, n := range c.store.CountByType() {
		byType[string(cat)] = n
	}

	st := RegistryStatus{
		TotalModules:    c.store.Len(),
		ByType:          byType,
		LastScan:        c.store.LastScan(),
		ProjectRoot:     c.store.ProjectRoot(),
		RegistryFile:    c.store.File(),
		InvalidVersions: []InvalidVersion{},
	}
	for _, m := range c.store.All() {
		if m.HasDescriptor {
			st.WithDescriptor++
		}
		if m.Version != nil && !validSemver(*m.Version) {
			st.InvalidVersions = append(st.InvalidVersions, InvalidVersion{Module: m.Name, Version: *m.Version})
		}
	}
	return succeed(st)
}

// Report builds the markdown registry report.
func (c *Controller) Report() Result[ReportDoc] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	modules := c.store.All()
	dependents := make(map[string]int, len(modules))
	for _, m := range modules {
		seen := make(map[string]bool)
		for _, ref := range []string{m.Name, m.Path} {
			for _, d := range c.store.FindDependents(ref) {
				seen[d.Name] = true
			}
		}
		dependents[m.Name] = len(seen)
	}

	md := report.Markdown(report.Input{
		Title:       branding.DisplayName() + " Module Registry",
		ProjectRoot: c.store.ProjectRoot(),
		LastScan:    c.store.LastScan(),
		Modules:     modules,
		Dependents:  dependents,
		Unresolved:  c.store.UnresolvedReferences(),
	})
	return succeed(ReportDoc{Markdown: md})
}

// validSemver reports whether v parses as a semantic version. semver accepts
// a leading "v".
func validSemver(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}
