package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildrlabs/crd-schema-gen/internal/flags"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("output", "o", "generated", "")
	fs.VarP(&flags.ArrayFlags{}, "resource", "r", "")
	fs.Int("concurrency", 1, "")
	fs.Bool("fail-fast", false, "")
	fs.String("log-level", "info", "")
	fs.String("config", "", "")
	return fs
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Output, cfg.Output)
	assert.Equal(t, d.Concurrency, cfg.Concurrency)
	assert.Empty(t, cfg.Resources)
	assert.Equal(t, "camelCase", cfg.Convention)
	assert.Equal(t, Log{Level: "info", Format: "text"}, cfg.Log)

	conv, err := cfg.NamingConvention()
	require.NoError(t, err)
	assert.Equal(t, naming.CamelCase, conv)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "crdgen.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`output: out
resources:
- msm
- msw
concurrency: 2
fail-fast: true
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Output:      "out",
		Resources:   []string{"msm", "msw"},
		Concurrency: 2,
		FailFast:    true,
		Convention:  "camelCase",
		Log:         Log{Level: "debug", Format: "json"},
	}, cfg)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "error reading config")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CRDGEN_OUTPUT", "from-env")
	t.Setenv("CRDGEN_FAIL_FAST", "true")
	t.Setenv("CRDGEN_LOG_LEVEL", "warn")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestFlagsOverride(t *testing.T) {
	t.Setenv("CRDGEN_OUTPUT", "from-env")
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"-o", "from-flag", "-r", "msm", "-r", "msw", "--log-level", "error"}))

	vp := New()
	require.NoError(t, BindFlags(vp, fs))
	cfg, err := Load(vp, "")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Output)
	assert.Equal(t, []string{"msm", "msw"}, cfg.Resources)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, runtimeDefault(), cfg.Concurrency)
}

func runtimeDefault() int {
	return Default().Concurrency
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		err    string
	}{
		{"output", func(c *Config) { c.Output = "" }, "output directory"},
		{"concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be at least 1"},
		{"convention", func(c *Config) { c.Convention = "Title Case" }, "unknown naming convention"},
		{"empty convention", func(c *Config) { c.Convention = "" }, "convention must not be empty"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tc.err)
		})
	}
	require.NoError(t, Default().Validate())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log = Log{Level: "warn", Format: "json"}
	logger, err := cfg.Logger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "kind", "Example")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"kind":"Example"`)
}
