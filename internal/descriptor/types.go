package descriptor

import (
	"fmt"
	"strings"
)

// Descriptor holds the optional metadata read from a module's descriptor file.
// Nil pointers mean the field was not declared.
type Descriptor struct {
	Path         string // absolute path of the file this was read from
	Version      *string
	Description  *string
	Dependencies []string // declared order, never nil
	Assembly     *string
}

// DefaultFileNames is the probe order for descriptor files inside a module directory.
var DefaultFileNames = []string{"module.yaml", "module.yml", "module.json", "module.toml"}

// DescriptorParseError reports a descriptor file that exists but is malformed.
type DescriptorParseError struct {
	Path   string
	Issues []ValidationIssue // schema violations, empty for syntax errors
	Err    error
}

func (e *DescriptorParseError) Error() string {
	if len(e.Issues) > 0 {
		parts := make([]string, len(e.Issues))
		for i, issue := range e.Issues {
			parts[i] = issue.String()
		}
		return fmt.Sprintf("invalid descriptor %s: %s", e.Path, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("parsing descriptor %s: %v", e.Path, e.Err)
}

func (e *DescriptorParseError) Unwrap() error { return e.Err }

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/dependencies/0")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}
