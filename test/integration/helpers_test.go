//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/modreg/internal/config"
	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/agentx-labs/modreg/internal/descriptor"
	"github.com/agentx-labs/modreg/internal/registry"
)

// testEnv holds paths to an isolated project.
type testEnv struct {
	ProjectDir   string // project root containing Assets/
	RegistryFile string // persisted registry snapshot
}

// setupTestEnv creates an empty project in a temp directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	project := t.TempDir()
	return &testEnv{
		ProjectDir:   project,
		RegistryFile: filepath.Join(project, ".modreg", "registry.json"),
	}
}

func (e *testEnv) settings() *config.Settings {
	return &config.Settings{
		ProjectRoot:     e.ProjectDir,
		RegistryFile:    e.RegistryFile,
		Dirs:            registry.DefaultDirs,
		Ignore:          registry.DefaultIgnore,
		DescriptorFiles: descriptor.DefaultFileNames,
		LogLevel:        "info",
	}
}

// open builds a fresh controller over the project, as a new process would.
func (e *testEnv) open() *controller.Controller {
	return controller.New(controller.Options{Settings: e.settings()})
}

// setupProject lays out a small game project across every descriptor format.
func setupProject(t *testing.T, root string) {
	t.Helper()

	// --- Core ---
	writeModule(t, root, "Assets/_Core/CoreUtils", "", "")
	writeModule(t, root, "Assets/_Core/Serialization", "module.json", `{
  "version": "2.1.0",
  "description": "Save data encoding",
  "assembly": "Game.Serialization"
}`)

	// --- Managers ---
	writeModule(t, root, "Assets/_Managers/Audio", "module.yaml", `version: 1.0.0
description: Audio mixer and playback
dependencies:
  - CoreUtils
`)
	writeModule(t, root, "Assets/_Managers/Save", "module.toml", `version = "0.3.0"
dependencies = ["Assets/_Core/CoreUtils", "Serialization"]
`)

	// --- Features ---
	writeModule(t, root, "Assets/Features/Combat", "module.yml", `dependencies: [Audio, CoreUtils, Physics]
`)

	// --- Ignored and non-module entries ---
	writeModule(t, root, "Assets/Features/.Hidden", "", "")
	writeFile(t, filepath.Join(root, "Assets/Features/README.md"), "not a module\n")
}

// writeModule creates a module directory and, when file is set, its descriptor.
func writeModule(t *testing.T, root, relDir, file, content string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if file != "" {
		writeFile(t, filepath.Join(dir, file), content)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
