package registry

import (
	"os"
	"path/filepath"
	"testing"
)

// mkModule creates a module directory under root at relDir. If descriptor is
// non-empty it is written as module.yaml.
func mkModule(t *testing.T, root, relDir, descriptor string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", relDir, err)
	}
	if descriptor != "" {
		if err := os.WriteFile(filepath.Join(dir, "module.yaml"), []byte(descriptor), 0644); err != nil {
			t.Fatalf("writing descriptor for %s: %v", relDir, err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func strPtr(s string) *string { return &s }

func names(modules []Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.Name
	}
	return out
}

// newTestStore returns a store whose registry file lives in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return NewStore(root, filepath.Join(root, ".modreg", "registry.json"))
}
