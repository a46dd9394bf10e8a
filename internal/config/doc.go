// Package config loads and validates the crd configuration file.
//
// Configuration comes from a TOML file (default ~/.config/crd/config.toml or
// a project-local crd.toml), with a small set of environment variable
// overrides applied on top. Subtitle rendering constants (canvas resolutions,
// recognized legacy font, house style values) live here rather than being
// scattered through the transforms, so alternate source services can be
// accommodated without code changes.
package config
