// Package config defines the format-agnostic configuration model of a harvest
// run and the Loader interface implemented by concrete formats.
//
// The `config.Model` is the single source of truth for the `app` package.
// Concrete implementations, such as for HCL, are provided in separate
// packages.
package config
