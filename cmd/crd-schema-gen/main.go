package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/buildrlabs/crd-schema-gen/internal/config"
	"github.com/buildrlabs/crd-schema-gen/internal/flags"
	"github.com/buildrlabs/crd-schema-gen/internal/generate"
	"github.com/buildrlabs/crd-schema-gen/internal/render"
	"github.com/buildrlabs/crd-schema-gen/internal/resources"
)

// RevisionAnnotation records the commit the CRDs were generated from.
const RevisionAnnotation = resources.Group + "/revision"

type app struct {
	vp         *viper.Viper
	cfg        config.Config
	configFile string
	resources  flags.ArrayFlags
}

func newRootCmd() *cobra.Command {
	a := &app{vp: config.New()}
	d := config.Default()

	rootCmd := &cobra.Command{
		Use:               "crd-schema-gen",
		Short:             "Generate CRD manifests and JSON Schemas of the " + resources.Group + " resources",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE:              a.generate,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (YAML)")
	pf.StringP("output", "o", d.Output, "The output directory")
	pf.VarP(&a.resources, "resource", "r", "Kind, plural or short name of a resource to process (repeatable; default all)")
	pf.String("convention", d.Convention, "Naming convention of struct keys that don't declare one")
	pf.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	pf.String("log-format", d.Log.Format, "Log format (text, json)")
	generateFlags(rootCmd.Flags())

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the CRDs and JSON Schemas to the output directory",
		Args:  cobra.NoArgs,
		RunE:  a.generate,
	}
	generateFlags(generateCmd.Flags())

	rootCmd.AddCommand(generateCmd, newCheckCmd(a), newListCmd(a), newConfigCmd(a))
	return rootCmd
}

func generateFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.Int("concurrency", d.Concurrency, "Number of resources generated in parallel")
	fs.Bool("fail-fast", d.FailFast, "Skip the remaining resources after the first failure")
	fs.Bool("stamp-revision", d.StampRevision, "Annotate the CRDs with the git revision of the output directory")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load merges defaults, config file, environment and flags and installs the
// configured logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(a.vp, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.vp, a.configFile)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg = cfg
	return nil
}

func (a *app) options(stamp bool) (generate.Options, error) {
	conv, err := a.cfg.NamingConvention()
	if err != nil {
		return generate.Options{}, err
	}
	opts := generate.Options{
		Convention:  conv,
		Concurrency: a.cfg.Concurrency,
		FailFast:    a.cfg.FailFast,
	}
	if stamp {
		rev, err := revision(a.cfg.Output)
		if err != nil {
			return generate.Options{}, err
		}
		opts.Annotations = map[string]string{RevisionAnnotation: rev}
	}
	return opts, nil
}

func (a *app) generate(cmd *cobra.Command, _ []string) error {
	defs, err := resources.Select(a.cfg.Resources)
	if err != nil {
		return err
	}
	opts, err := a.options(a.cfg.StampRevision)
	if err != nil {
		return err
	}

	l := slog.With("output", a.cfg.Output, "resources", len(defs), "concurrency", opts.Concurrency)
	l.Info("Generating resources")

	report := generate.Run(cmd.Context(), render.NewWriter(a.cfg.Output), defs, opts)
	for _, p := range report.Paths() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("generation failed for %s: %w", strings.Join(report.Failed(), ", "), err)
	}
	l.Info("Generation completed", "artifacts", len(report.Paths()))
	return nil
}
