package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/reqgraph/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		want       *app.Config
		shouldExit bool
		wantCode   int
		wantErr    string
	}{
		{
			name: "positional config with defaults",
			args: []string{"harvest.hcl"},
			want: &app.Config{ConfigPaths: []string{"harvest.hcl"}, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all flags",
			args: []string{"-c", "a.hcl", "--config", "b.hcl", "--log-format", "JSON", "--log-level", "debug", "--workers", "4", "-o", "out", "--healthcheck-port", "8080", "c.hcl"},
			want: &app.Config{
				ConfigPaths:     []string{"a.hcl", "b.hcl", "c.hcl"},
				LogFormat:       "json",
				LogLevel:        "debug",
				Workers:         4,
				OutputDir:       "out",
				HealthcheckPort: 8080,
			},
		},
		{name: "help", args: []string{"--help"}, shouldExit: true},
		{name: "no config prints usage", args: []string{}, shouldExit: true},
		{name: "unknown flag", args: []string{"--nope"}, wantCode: ExitUsage, wantErr: "unknown flag: --nope"},
		{name: "bad log format", args: []string{"--log-format", "xml", "a.hcl"}, wantCode: ExitUsage, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "trace", "a.hcl"}, wantCode: ExitUsage, wantErr: "invalid log-level"},
		{name: "negative workers", args: []string{"--workers", "-2", "a.hcl"}, wantCode: ExitUsage, wantErr: "workers must not be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.wantErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			if tc.shouldExit {
				assert.Nil(t, cfg)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
