package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/reqgraph/internal/app"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the raw flag values of one Parse call.
type flags struct {
	configs         []string
	logFormat       string
	logLevel        string
	workers         int
	output          string
	healthcheckPort int
}

// newRootCommand builds the root command. RunE only records that the command
// ran; the configuration is assembled by Parse afterwards.
func newRootCommand(f *flags, ran *bool, positional *[]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reqgraph [CONFIG...]",
		Short: "Harvest a course catalog and build its prerequisite graph.",
		Long: `reqgraph - harvests every discipline of a university course catalog,
parses its prerequisite expressions and resolves them into a cross-reference
graph, written as one JSON file per discipline group.

CONFIG is a single .hcl file or a directory containing .hcl files.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*ran = true
			*positional = args
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVarP(&f.configs, "config", "c", nil, "Path to a configuration file or directory. May be repeated.")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVar(&f.workers, "workers", 0, "Number of concurrent shard workers. 0 uses the configured value.")
	fs.StringVarP(&f.output, "output", "o", "", "Output directory. Overrides the configured directory.")
	fs.IntVar(&f.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	return cmd
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		f          flags
		ran        bool
		positional []string
	)
	if args == nil {
		args = []string{}
	}
	cmd := newRootCommand(&f, &ran, &positional)
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if !ran {
		// --help was handled by cobra.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append(f.configs, positional...)
	if len(paths) == 0 {
		slog.Debug("No configuration path provided, printing usage and exiting.")
		_ = cmd.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPaths:     paths,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: f.healthcheckPort,
		Workers:         f.workers,
		OutputDir:       f.output,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid arguments: %v", err)}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
