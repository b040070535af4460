package registry

import "slices"

// DiffResult classifies module names across two scans. The three lists are
// disjoint, sorted, and together cover every name in either input.
type DiffResult struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged []string `json:"unchanged"`
}

// DiffCounts is the size of each DiffResult class.
type DiffCounts struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Diff compares the names before and after a scan. Only names are compared;
// a module whose content changed under the same name is unchanged.
func Diff(before, after []string) DiffResult {
	prev := toSet(before)
	next := toSet(after)

	res := DiffResult{Added: []string{}, Removed: []string{}, Unchanged: []string{}}
	for name := range next {
		if prev[name] {
			res.Unchanged = append(res.Unchanged, name)
		} else {
			res.Added = append(res.Added, name)
		}
	}
	for name := range prev {
		if !next[name] {
			res.Removed = append(res.Removed, name)
		}
	}

	slices.Sort(res.Added)
	slices.Sort(res.Removed)
	slices.Sort(res.Unchanged)
	return res
}

// Counts returns the size of each class.
func (d DiffResult) Counts() DiffCounts {
	return DiffCounts{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
