package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Find returns the first descriptor file present in dir, probing names in order.
func Find(dir string, names []string) (string, bool) {
	if len(names) == 0 {
		names = DefaultFileNames
	}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Load looks for a descriptor in dir and parses it. It returns (nil, false, nil)
// when no descriptor file exists; that is not an error.
func Load(dir string, names []string) (*Descriptor, bool, error) {
	path, ok := Find(dir, names)
	if !ok {
		return nil, false, nil
	}
	d, err := Parse(path)
	if err != nil {
		return nil, true, err
	}
	return d, true, nil
}

// Parse reads a descriptor file, validates it, and returns its fields.
// The format is chosen by extension: .toml is TOML, anything else is YAML
// (which also covers JSON). Malformed files fail with *DescriptorParseError.
func Parse(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DescriptorParseError{Path: path, Err: fmt.Errorf("reading file: %w", err)}
	}

	var (
		raw      map[string]interface{}
		versions map[string]string
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		raw, err = decodeTOML(data)
	} else {
		raw, versions, err = decodeYAML(data)
	}
	if err != nil {
		return nil, &DescriptorParseError{Path: path, Err: err}
	}

	issues, err := validate(raw)
	if err != nil {
		return nil, &DescriptorParseError{Path: path, Err: err}
	}
	if len(issues) > 0 {
		return nil, &DescriptorParseError{
			Path:   path,
			Issues: issues,
			Err:    errors.New("schema validation failed"),
		}
	}

	return fromRaw(path, raw, versions["version"]), nil
}

// decodeYAML unmarshals a YAML (or JSON) document into a generic map. It also
// returns the literal text of scalar fields so numeric versions like 1.10 keep
// their written form.
func decodeYAML(data []byte) (map[string]interface{}, map[string]string, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	var literal struct {
		Version yaml.Node `yaml:"version"`
	}
	literals := make(map[string]string)
	if err := yaml.Unmarshal(data, &literal); err == nil && literal.Version.Kind == yaml.ScalarNode {
		literals["version"] = literal.Version.Value
	}
	return raw, literals, nil
}

func decodeTOML(data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling TOML: %w", err)
	}
	return raw, nil
}

// fromRaw maps the validated document onto the fixed descriptor schema.
func fromRaw(path string, raw map[string]interface{}, versionLiteral string) *Descriptor {
	d := &Descriptor{
		Path:         path,
		Description:  optionalString(raw["description"]),
		Assembly:     optionalString(raw["assembly"]),
		Dependencies: []string{},
	}

	switch v := raw["version"].(type) {
	case string:
		d.Version = &v
	case nil:
	default:
		s := versionLiteral
		if s == "" {
			s = formatNumber(v)
		}
		d.Version = &s
	}

	if deps, ok := raw["dependencies"].([]interface{}); ok {
		for _, dep := range deps {
			if s, ok := dep.(string); ok {
				d.Dependencies = append(d.Dependencies, s)
			}
		}
	}

	return d
}

func optionalString(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func formatNumber(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(n)
	}
}
