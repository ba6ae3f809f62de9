package app

import (
	"fmt"

	"github.com/specialistvlad/reqgraph/internal/config"
	"github.com/specialistvlad/reqgraph/internal/htmlsource"
	"github.com/specialistvlad/reqgraph/internal/source"
	"github.com/specialistvlad/reqgraph/internal/yamlsource"
)

// newProvider builds the page source selected by the source block.
func newProvider(src *config.Source) (source.Provider, error) {
	switch src.Kind {
	case config.SourceHTML:
		return htmlsource.New(htmlsource.Options{
			BaseURL:           src.BaseURL,
			RequestsPerSecond: src.RequestsPerSecond,
			NoneMarkers:       src.NoneMarkers,
		})
	case config.SourceYAML:
		return yamlsource.Load(src.Path)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", config.ErrInvalidConfig, src.Kind)
	}
}
