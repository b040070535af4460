package controller

import (
	"errors"
	"time"

	"github.com/agentx-labs/modreg/internal/registry"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindPersistence ErrorKind = "persistence"
	KindInternal    ErrorKind = "internal"
)

// Failure is the error variant of a Result.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

// Result is the outcome of a controller operation. Exactly one of Data and
// Error is set. A lookup miss is a success whose payload reports Found=false.
type Result[T any] struct {
	Success bool     `json:"success"`
	Data    *T       `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

// Failed reports whether the result is the error variant.
func (r Result[T]) Failed() bool { return !r.Success }

func succeed[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: &v}
}

func fail[T any](f *Failure) Result[T] {
	return Result[T]{Error: f}
}

// failureFrom translates a domain error into a Failure.
func failureFrom(err error, details any) *Failure {
	var cerr *registry.InvalidCategoryError
	if errors.As(err, &cerr) {
		return &Failure{
			Kind:    KindValidation,
			Message: err.Error(),
			Details: InvalidTypes{Invalid: cerr.Invalid, Valid: cerr.Valid},
		}
	}
	var perr *registry.PersistenceError
	if errors.As(err, &perr) {
		return &Failure{Kind: KindPersistence, Message: err.Error(), Details: details}
	}
	return &Failure{Kind: KindInternal, Message: err.Error(), Details: details}
}

// InvalidTypes details a validation failure for unknown categories.
type InvalidTypes struct {
	Invalid []string `json:"invalid"`
	Valid   []string `json:"valid"`
}

// ModuleList is the payload of ListModules.
type ModuleList struct {
	Count   int               `json:"count"`
	Modules []registry.Module `json:"modules"`
}

// ModuleLookup is the payload of GetModule.
type ModuleLookup struct {
	Name   string           `json:"name"`
	Found  bool             `json:"found"`
	Module *registry.Module `json:"module,omitempty"`
}

// DependencyList is the payload of GetDependencies.
type DependencyList struct {
	Module       string   `json:"module"`
	Found        bool     `json:"found"`
	Dependencies []string `json:"dependencies"`
	Count        int      `json:"count"`
}

// DependentList is the payload of FindDependents.
type DependentList struct {
	Reference  string            `json:"reference"`
	Dependents []registry.Module `json:"dependents"`
	Count      int               `json:"count"`
}

// RefreshCounts summarizes a rescan.
type RefreshCounts struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Total     int `json:"total"`
}

// RefreshSummary is the payload of Refresh.
type RefreshSummary struct {
	Summary        RefreshCounts             `json:"summary"`
	AddedModules   []string                  `json:"added_modules"`
	RemovedModules []string                  `json:"removed_modules"`
	LastScan       time.Time                 `json:"last_scan"`
	Collisions     []registry.Collision      `json:"collisions,omitempty"`
	Degraded       []registry.DegradedModule `json:"degraded,omitempty"`
	Skipped        []registry.SkippedEntry   `json:"skipped,omitempty"`
}

// InvalidVersion names a module whose declared version is not semver.
type InvalidVersion struct {
	Module  string `json:"module"`
	Version string `json:"version"`
}

// RegistryStatus is the payload of Status.
type RegistryStatus struct {
	TotalModules    int              `json:"total_modules"`
	ByType          map[string]int   `json:"by_type"`
	WithDescriptor  int              `json:"with_descriptor"`
	LastScan        *time.Time       `json:"last_scan"`
	ProjectRoot     string           `json:"project_root"`
	RegistryFile    string           `json:"registry_file"`
	InvalidVersions []InvalidVersion `json:"invalid_versions"`
}

// ReportDoc is the payload of Report.
type ReportDoc struct {
	Markdown string `json:"markdown"`
}
