// Package cli defines the Cobra command tree for the modreg CLI. Each file
// registers one top-level command with the root command. Commands build a
// controller from the resolved configuration and only handle flag parsing and
// output formatting.
package cli
