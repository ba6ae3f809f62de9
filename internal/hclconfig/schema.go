package hclconfig

// fileRoot decodes every top-level block a configuration file may contain.
type fileRoot struct {
	Sources  []*sourceBlock  `hcl:"source,block"`
	Harvests []*harvestBlock `hcl:"harvest,block"`
	Outputs  []*outputBlock  `hcl:"output,block"`
}

type sourceBlock struct {
	Kind              string   `hcl:"kind,label"`
	BaseURL           *string  `hcl:"base_url,optional"`
	RequestsPerSecond *float64 `hcl:"requests_per_second,optional"`
	NoneMarkers       []string `hcl:"none_markers,optional"`
	Path              *string  `hcl:"path,optional"`
}

type harvestBlock struct {
	Workers        *int     `hcl:"workers,optional"`
	ResolveWorkers *int     `hcl:"resolve_workers,optional"`
	Groups         []string `hcl:"groups,optional"`
	Courses        *bool    `hcl:"courses,optional"`
}

type outputBlock struct {
	Directory string  `hcl:"directory"`
	SQLite    *string `hcl:"sqlite,optional"`
}
