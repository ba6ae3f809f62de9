// Package hclconfig implements config.Loader for HCL files. Attribute
// expressions are evaluated with an `env` object exposing the process
// environment, so `directory = env.OUT_DIR` works as expected.
package hclconfig
