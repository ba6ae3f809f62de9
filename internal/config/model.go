package config

import (
	"errors"
	"fmt"
)

// Source kinds.
const (
	SourceHTML = "html"
	SourceYAML = "yaml"
)

// DefaultBaseURL is the published 2021 undergraduate catalog.
const DefaultBaseURL = "https://www.dac.unicamp.br/sistemas/catalogos/grad/catalogo2021/"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Model is the unified, format-agnostic representation of a harvest run.
type Model struct {
	Source  *Source
	Harvest Harvest
	Output  Output
}

// Source selects and configures the page source provider.
type Source struct {
	Kind string
	// BaseURL and RequestsPerSecond apply to the html kind.
	BaseURL           string
	RequestsPerSecond float64
	// NoneMarkers override the requirement texts meaning "no requirements".
	NoneMarkers []string
	// Path applies to the yaml kind.
	Path string
}

// Harvest tunes the two phases of a run. Zero values select defaults.
type Harvest struct {
	Workers        int
	ResolveWorkers int
	// Groups restricts the harvest; empty means discover every group.
	Groups []string
	// Courses also harvests the suggested curricula.
	Courses bool
}

// Output names where results are written.
type Output struct {
	Directory string
	// SQLite is an optional database path, relative to Directory unless absolute.
	SQLite string
}

// Default returns the model used when no configuration file is given.
func Default() *Model {
	return &Model{
		Source: &Source{Kind: SourceHTML, BaseURL: DefaultBaseURL},
	}
}

// Validate checks the model for contradictions and missing values.
func (m *Model) Validate() error {
	if m.Source == nil {
		return fmt.Errorf("%w: a source block is required", ErrInvalidConfig)
	}
	switch m.Source.Kind {
	case SourceHTML:
		if m.Source.BaseURL == "" {
			return fmt.Errorf("%w: source %q requires base_url", ErrInvalidConfig, m.Source.Kind)
		}
	case SourceYAML:
		if m.Source.Path == "" {
			return fmt.Errorf("%w: source %q requires path", ErrInvalidConfig, m.Source.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, m.Source.Kind)
	}
	if m.Harvest.Workers < 0 || m.Harvest.ResolveWorkers < 0 {
		return fmt.Errorf("%w: worker counts must not be negative", ErrInvalidConfig)
	}
	if m.Output.Directory == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	}
	return nil
}
