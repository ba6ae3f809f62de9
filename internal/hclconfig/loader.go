package hclconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/reqgraph/internal/config"
	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// ErrDuplicateBlock is returned when a singleton block appears more than once
// across all loaded files.
var ErrDuplicateBlock = errors.New("duplicate block")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Env replaces the process environment in the evaluation context when set.
	Env map[string]string
}

// NewLoader creates a new HCL configuration loader reading os.Environ.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model. Each of source, harvest and output may be declared at most once.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	evalCtx := l.evalContext()
	parser := hclparse.NewParser()
	model := &config.Model{}
	var haveHarvest, haveOutput bool

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, src := range root.Sources {
			if model.Source != nil {
				return nil, fmt.Errorf("%w: source %q in %s", ErrDuplicateBlock, src.Kind, file)
			}
			model.Source = translateSource(src)
		}
		for _, h := range root.Harvests {
			if haveHarvest {
				return nil, fmt.Errorf("%w: harvest in %s", ErrDuplicateBlock, file)
			}
			haveHarvest = true
			model.Harvest = translateHarvest(h)
		}
		for _, o := range root.Outputs {
			if haveOutput {
				return nil, fmt.Errorf("%w: output in %s", ErrDuplicateBlock, file)
			}
			haveOutput = true
			model.Output = translateOutput(o)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "has_source", model.Source != nil, "groups", len(model.Harvest.Groups))
	return model, nil
}

// evalContext exposes the environment as the `env` object.
func (l *Loader) evalContext() *hcl.EvalContext {
	env := l.Env
	if env == nil {
		env = make(map[string]string)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}

	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vals),
		},
	}
}

func translateSource(b *sourceBlock) *config.Source {
	src := &config.Source{Kind: b.Kind, NoneMarkers: b.NoneMarkers}
	if b.BaseURL != nil {
		src.BaseURL = *b.BaseURL
	} else if b.Kind == config.SourceHTML {
		src.BaseURL = config.DefaultBaseURL
	}
	if b.RequestsPerSecond != nil {
		src.RequestsPerSecond = *b.RequestsPerSecond
	}
	if b.Path != nil {
		src.Path = *b.Path
	}
	return src
}

func translateHarvest(b *harvestBlock) config.Harvest {
	h := config.Harvest{Groups: b.Groups}
	if b.Workers != nil {
		h.Workers = *b.Workers
	}
	if b.ResolveWorkers != nil {
		h.ResolveWorkers = *b.ResolveWorkers
	}
	if b.Courses != nil {
		h.Courses = *b.Courses
	}
	return h
}

func translateOutput(b *outputBlock) config.Output {
	o := config.Output{Directory: b.Directory}
	if b.SQLite != nil {
		o.SQLite = *b.SQLite
	}
	return o
}
