// Package registry is the module registry engine. It scans the category
// directories of a project tree into Module records, holds the resulting
// catalog in a Store that persists to a JSON file, classifies rescans with a
// name-level Diff, and answers structural queries: modules by category, lookup
// by name, declared dependencies, and reverse dependents.
package registry
