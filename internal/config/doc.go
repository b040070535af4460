// Package config manages modreg settings. They are read from ~/.modreg/config.yaml
// (or the file given with --config) and from MODREG_* environment variables.
// They cover the project root, the registry file location, category directory
// overrides, ignore globs, descriptor file names and the log level.
package config
