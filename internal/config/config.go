// Package config loads the generator settings from defaults, an optional
// YAML file, CRDGEN_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// EnvPrefix prefixes the environment variables overriding settings.
const EnvPrefix = "CRDGEN"

// Config holds the settings of a generator run.
type Config struct {
	Output        string   `mapstructure:"output"`
	Resources     []string `mapstructure:"resources"`
	Concurrency   int      `mapstructure:"concurrency"`
	FailFast      bool     `mapstructure:"fail-fast"`
	StampRevision bool     `mapstructure:"stamp-revision"`
	Convention    string   `mapstructure:"convention"`
	Log           Log      `mapstructure:"log"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built in settings.
func Default() Config {
	return Config{
		Output:      "generated",
		Concurrency: runtime.NumCPU(),
		Convention:  string(naming.CamelCase),
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	vp := viper.New()
	d := Default()
	vp.SetDefault("output", d.Output)
	vp.SetDefault("resources", []string{})
	vp.SetDefault("concurrency", d.Concurrency)
	vp.SetDefault("fail-fast", d.FailFast)
	vp.SetDefault("stamp-revision", d.StampRevision)
	vp.SetDefault("convention", d.Convention)
	vp.SetDefault("log.level", d.Log.Level)
	vp.SetDefault("log.format", d.Log.Format)

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vp.AutomaticEnv()
	return vp
}

// flagKeys maps flag names to setting keys where they differ.
var flagKeys = map[string]string{
	"resource":   "resources",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// BindFlags lets the flags of fs override the settings they name.
func BindFlags(vp *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		if !isSetting(key) {
			return
		}
		errs = append(errs, vp.BindPFlag(key, f))
	})
	return errors.Join(errs...)
}

func isSetting(key string) bool {
	switch key {
	case "output", "resources", "concurrency", "fail-fast", "stamp-revision", "convention", "log.level", "log.format":
		return true
	}
	return false
}

// Load reads the optional config file and returns the merged settings.
func Load(vp *viper.Viper, file string) (Config, error) {
	if file != "" {
		vp.SetConfigFile(file)
		vp.SetConfigType("yaml")
		if err := vp.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config %s: %w", file, err)
		}
	}
	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values no run could use.
func (c Config) Validate() error {
	if c.Output == "" {
		return errors.New("output directory must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := c.NamingConvention(); err != nil {
		return err
	}
	if _, err := c.Logger(io.Discard); err != nil {
		return err
	}
	return nil
}

// NamingConvention returns the default naming convention.
func (c Config) NamingConvention() (naming.Convention, error) {
	conv, err := naming.Parse(c.Convention)
	if err != nil {
		return conv, err
	}
	if conv == naming.Inherit {
		return conv, errors.New("convention must not be empty")
	}
	return conv, nil
}

// Logger returns a logger writing to w in the configured format and level.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Log.Format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, expected text or json", c.Log.Format)
	}
}
