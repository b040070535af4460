package controller

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentx-labs/modreg/internal/config"
	"github.com/agentx-labs/modreg/internal/descriptor"
	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func testSettings(root string) *config.Settings {
	return &config.Settings{
		ProjectRoot:     root,
		RegistryFile:    filepath.Join(root, ".modreg", "registry.json"),
		Dirs:            registry.DefaultDirs,
		Ignore:          registry.DefaultIgnore,
		DescriptorFiles: descriptor.DefaultFileNames,
		LogLevel:        "info",
	}
}

func mkModule(t *testing.T, root, relDir, desc string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if desc != "" {
		if err := os.WriteFile(filepath.Join(dir, "module.yaml"), []byte(desc), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// exampleProject lays out Audio (depends on CoreUtils) and CoreUtils.
func exampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	mkModule(t, root, "Assets/_Managers/Audio", "version: 1.0.0\ndependencies: [CoreUtils]\n")
	mkModule(t, root, "Assets/_Core/CoreUtils", "")
	return root
}

func newController(t *testing.T, root string) *Controller {
	t.Helper()
	return New(Options{Settings: testSettings(root), Now: func() time.Time { return fixedNow }})
}

func TestNew_StartsEmptyWithoutRegistry(t *testing.T) {
	c := newController(t, t.TempDir())

	res := c.ListModules(nil)
	if res.Failed() {
		t.Fatalf("ListModules failed: %+v", res.Error)
	}
	if res.Data.Count != 0 || len(res.Data.Modules) != 0 {
		t.Errorf("expected empty catalog, got %d modules", res.Data.Count)
	}

	st := c.Status().Data
	if st.LastScan != nil {
		t.Errorf("LastScan = %v, want nil before first refresh", st.LastScan)
	}
}

func TestRefresh_ExampleProject(t *testing.T) {
	root := exampleProject(t)
	c := newController(t, root)

	res := c.Refresh()
	if res.Failed() {
		t.Fatalf("Refresh failed: %+v", res.Error)
	}
	want := RefreshCounts{Added: 2, Total: 2}
	if diff := cmp.Diff(want, res.Data.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Audio", "CoreUtils"}, res.Data.AddedModules); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if !res.Data.LastScan.Equal(fixedNow) {
		t.Errorf("LastScan = %v, want %v", res.Data.LastScan, fixedNow)
	}

	audio := c.GetModule("Audio").Data
	if !audio.Found || audio.Module.Type != registry.CategoryManager || !audio.Module.HasDescriptor {
		t.Errorf("unexpected Audio lookup: %+v", audio)
	}
	core := c.GetModule("CoreUtils").Data
	if !core.Found || core.Module.HasDescriptor || len(core.Module.Dependencies) != 0 {
		t.Errorf("unexpected CoreUtils lookup: %+v", core)
	}

	dependents := c.FindDependents("CoreUtils").Data
	if dependents.Count != 1 || dependents.Dependents[0].Name != "Audio" {
		t.Errorf("FindDependents(CoreUtils) = %+v", dependents)
	}

	deps := c.GetDependencies("CoreUtils").Data
	if !deps.Found || deps.Count != 0 || deps.Dependencies == nil {
		t.Errorf("GetDependencies(CoreUtils) = %+v, want found with empty list", deps)
	}
}

func TestGetModule_NotFoundIsSuccess(t *testing.T) {
	c := newController(t, exampleProject(t))
	c.Refresh()

	res := c.GetModule("Nope")
	if res.Failed() {
		t.Fatalf("lookup miss should succeed: %+v", res.Error)
	}
	if res.Data.Found || res.Data.Module != nil {
		t.Errorf("expected not found, got %+v", res.Data)
	}

	deps := c.GetDependencies("Nope")
	if deps.Failed() || deps.Data.Found {
		t.Errorf("GetDependencies(Nope) = %+v", deps)
	}
}

func TestListModules_InvalidTypeDoesNotMutate(t *testing.T) {
	c := newController(t, exampleProject(t))
	c.Refresh()
	before := c.ListModules(nil).Data

	res := c.ListModules([]string{"manager", "bogus"})
	if !res.Failed() {
		t.Fatal("expected validation failure")
	}
	if res.Error.Kind != KindValidation {
		t.Errorf("Kind = %q, want validation", res.Error.Kind)
	}
	details, ok := res.Error.Details.(InvalidTypes)
	if !ok {
		t.Fatalf("Details = %T, want InvalidTypes", res.Error.Details)
	}
	if diff := cmp.Diff([]string{"bogus"}, details.Invalid); diff != "" {
		t.Errorf("invalid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(registry.CategoryNames(), details.Valid); diff != "" {
		t.Errorf("valid mismatch (-want +got):\n%s", diff)
	}

	after := c.ListModules(nil).Data
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("catalog changed (-before +after):\n%s", diff)
	}
}

func TestListModules_ByType(t *testing.T) {
	c := newController(t, exampleProject(t))
	c.Refresh()

	res := c.ListModules([]string{"manager"})
	if res.Failed() {
		t.Fatalf("ListModules failed: %+v", res.Error)
	}
	if res.Data.Count != 1 || res.Data.Modules[0].Name != "Audio" {
		t.Errorf("ListModules(manager) = %+v", res.Data)
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	c := newController(t, exampleProject(t))
	c.Refresh()

	res := c.Refresh()
	if res.Failed() {
		t.Fatalf("second Refresh failed: %+v", res.Error)
	}
	want := RefreshCounts{Unchanged: 2, Total: 2}
	if diff := cmp.Diff(want, res.Data.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(res.Data.AddedModules) != 0 || len(res.Data.RemovedModules) != 0 {
		t.Errorf("expected no added/removed, got %+v", res.Data)
	}
}

func TestRefresh_DetectsRemoval(t *testing.T) {
	root := exampleProject(t)
	c := newController(t, root)
	c.Refresh()

	if err := os.RemoveAll(filepath.Join(root, "Assets", "_Core", "CoreUtils")); err != nil {
		t.Fatal(err)
	}
	res := c.Refresh().Data
	if diff := cmp.Diff([]string{"CoreUtils"}, res.RemovedModules); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if res.Summary.Total != 1 || res.Summary.Unchanged != 1 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestRefresh_ReportsCollisions(t *testing.T) {
	root := t.TempDir()
	mkModule(t, root, "Assets/_Shared/Inventory", "")
	mkModule(t, root, "Assets/Features/Inventory", "")
	c := newController(t, root)

	res := c.Refresh().Data
	if res.Summary.Total != 1 {
		t.Errorf("Total = %d, want 1 after dedupe", res.Summary.Total)
	}
	if len(res.Collisions) != 1 || res.Collisions[0].Name != "Inventory" {
		t.Fatalf("Collisions = %+v", res.Collisions)
	}
	got := c.GetModule("Inventory").Data.Module
	if got.Type != registry.CategoryFeature {
		t.Errorf("kept %q, want the later feature module", got.Type)
	}
}

func TestRefresh_PersistFailureKeepsCatalog(t *testing.T) {
	root := exampleProject(t)
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	s := testSettings(root)
	s.RegistryFile = filepath.Join(blocker, "registry.json")
	c := New(Options{Settings: s})

	res := c.Refresh()
	if !res.Failed() {
		t.Fatal("expected persistence failure")
	}
	if res.Error.Kind != KindPersistence {
		t.Errorf("Kind = %q, want persistence", res.Error.Kind)
	}
	summary, ok := res.Error.Details.(RefreshSummary)
	if !ok {
		t.Fatalf("Details = %T, want RefreshSummary", res.Error.Details)
	}
	if summary.Summary.Added != 2 {
		t.Errorf("summary.Added = %d, want 2", summary.Summary.Added)
	}
	if got := c.ListModules(nil).Data.Count; got != 2 {
		t.Errorf("catalog has %d modules, want 2 despite failed persist", got)
	}
}

func TestNew_RestoresPersistedRegistry(t *testing.T) {
	root := exampleProject(t)
	newController(t, root).Refresh()

	c := newController(t, root)
	if got := c.ListModules(nil).Data.Count; got != 2 {
		t.Fatalf("restored %d modules, want 2", got)
	}
	st := c.Status().Data
	if st.LastScan == nil || !st.LastScan.Equal(fixedNow) {
		t.Errorf("restored LastScan = %v", st.LastScan)
	}
}

func TestNew_CorruptRegistryStartsEmpty(t *testing.T) {
	root := t.TempDir()
	s := testSettings(root)
	if err := os.MkdirAll(filepath.Dir(s.RegistryFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.RegistryFile, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(Options{Settings: s})
	if got := c.ListModules(nil).Data.Count; got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestStatus(t *testing.T) {
	root := exampleProject(t)
	mkModule(t, root, "Assets/Levels/Forest", "version: latest\n")
	mkModule(t, root, "Assets/_Shared/Pooling", "version: v1.2.0\n")
	c := newController(t, root)
	c.Refresh()

	st := c.Status().Data
	if st.TotalModules != 4 {
		t.Errorf("TotalModules = %d, want 4", st.TotalModules)
	}
	if st.WithDescriptor != 3 {
		t.Errorf("WithDescriptor = %d, want 3", st.WithDescriptor)
	}
	if st.ByType["core"] != 1 || st.ByType["manager"] != 1 || st.ByType["level"] != 1 {
		t.Errorf("ByType = %v", st.ByType)
	}
	if _, ok := st.ByType["thirdparty"]; !ok {
		t.Error("empty categories should be reported with zero count")
	}
	want := []InvalidVersion{{Module: "Forest", Version: "latest"}}
	if diff := cmp.Diff(want, st.InvalidVersions); diff != "" {
		t.Errorf("invalid versions mismatch (-want +got):\n%s", diff)
	}
	if st.ProjectRoot != root {
		t.Errorf("ProjectRoot = %q", st.ProjectRoot)
	}
}

func TestReport(t *testing.T) {
	root := exampleProject(t)
	mkModule(t, root, "Assets/Features/Combat", "dependencies: [Audio, Physics]\n")
	c := newController(t, root)
	c.Refresh()

	md := c.Report().Data.Markdown
	for _, want := range []string{
		"| Audio | 1.0.0 | yes | 1 | 1 |",
		"| CoreUtils | - | no | 0 | 1 |",
		"**Combat** → `Physics`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n---\n%s", want, md)
		}
	}
}

func TestConcurrentQueriesDuringRefresh(t *testing.T) {
	c := newController(t, exampleProject(t))
	c.Refresh()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Refresh()
		}()
		go func() {
			defer wg.Done()
			if n := c.ListModules(nil).Data.Count; n != 2 {
				t.Errorf("observed partial catalog of %d modules", n)
			}
		}()
	}
	wg.Wait()
}
