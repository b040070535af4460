// Package descriptor reads the optional metadata file that sits inside a module
// directory (module.yaml, module.yml, module.json or module.toml). Descriptors
// are validated against an embedded JSON Schema and mapped onto a fixed record
// of optional fields: version, description, dependencies and assembly.
//
// A missing descriptor is reported as absent, never as an error. A descriptor
// that exists but is malformed fails with *DescriptorParseError so that the
// caller can decide whether to degrade or abort.
package descriptor
