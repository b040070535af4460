package branding

import "testing"

func TestDefaults(t *testing.T) {
	if got := CLIName(); got != "modreg" {
		t.Errorf("CLIName() = %q", got)
	}
	if got := HomeDir(); got != ".modreg" {
		t.Errorf("HomeDir() = %q", got)
	}
	if got := EnvVar("project_root"); got != "MODREG_PROJECT_ROOT" {
		t.Errorf("EnvVar() = %q", got)
	}
}
