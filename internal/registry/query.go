package registry

import "slices"

// GetModule looks up a module by exact name. A miss is not an error.
func (s *Store) GetModule(name string) (Module, bool) {
	return s.Get(name)
}

// Dependencies returns the named module's dependency entries as declared.
// The bool is false when the module is not cataloged.
func (s *Store) Dependencies(name string) ([]string, bool) {
	m, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	return m.Dependencies, true
}

// FindDependents returns every module that lists ref verbatim among its
// dependencies, in catalog order. References are matched as raw strings, so a
// short name and a path to the same module are different references. The
// result is empty, never nil, when nothing matches.
func (s *Store) FindDependents(ref string) []Module {
	result := []Module{}
	for _, m := range s.modules {
		if m.DependsOn(ref) {
			result = append(result, m.clone())
		}
	}
	return result
}

// ListByTypes returns the modules of the requested types, grouped by type in
// request order and in catalog order within a type. An empty request returns
// every module. Unknown types fail with *InvalidCategoryError and nothing is
// returned.
func (s *Store) ListByTypes(types []string) ([]Module, error) {
	if len(types) == 0 {
		return s.All(), nil
	}

	var invalid []string
	cats := make([]Category, 0, len(types))
	for _, t := range types {
		c, ok := ParseCategory(t)
		if !ok {
			if !slices.Contains(invalid, t) {
				invalid = append(invalid, t)
			}
			continue
		}
		if !slices.Contains(cats, c) {
			cats = append(cats, c)
		}
	}
	if len(invalid) > 0 {
		slices.Sort(invalid)
		return nil, &InvalidCategoryError{Invalid: invalid, Valid: CategoryNames()}
	}

	result := []Module{}
	for _, c := range cats {
		result = append(result, s.Filter(c)...)
	}
	return result, nil
}

// CountByType returns how many modules each category holds, including zeros.
func (s *Store) CountByType() map[Category]int {
	counts := make(map[Category]int, len(knownCategories))
	for _, c := range knownCategories {
		counts[c] = 0
	}
	for _, m := range s.modules {
		counts[m.Type]++
	}
	return counts
}

// UnresolvedReferences returns, per module, the dependency entries that do not
// name any cataloged module. Path-style references are matched on their final
// segment. Modules with no unresolved entries are omitted.
func (s *Store) UnresolvedReferences() map[string][]string {
	result := map[string][]string{}
	for _, m := range s.modules {
		for _, dep := range m.Dependencies {
			if _, ok := s.index[dep]; ok {
				continue
			}
			if _, ok := s.index[lastSegment(dep)]; ok {
				continue
			}
			result[m.Name] = append(result[m.Name], dep)
		}
	}
	return result
}

func lastSegment(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' || ref[i] == '\\' {
			return ref[i+1:]
		}
	}
	return ref
}
