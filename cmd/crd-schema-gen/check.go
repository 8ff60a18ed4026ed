package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/generate"
	"github.com/buildrlabs/crd-schema-gen/internal/openapi"
	"github.com/buildrlabs/crd-schema-gen/internal/render"
	"github.com/buildrlabs/crd-schema-gen/internal/resources"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the artifacts in the output directory are up to date",
		Long: "Regenerates every selected artifact in memory and compares it with the file in the output directory. " +
			"The revision annotation is ignored.",
		Args: cobra.NoArgs,
		RunE: a.check,
	}
}

func (a *app) check(cmd *cobra.Command, _ []string) error {
	defs, err := resources.Select(a.cfg.Resources)
	if err != nil {
		return err
	}
	opts, err := a.options(false)
	if err != nil {
		return err
	}

	w := render.NewWriter(a.cfg.Output)
	var stale []string
	for _, def := range defs {
		artifacts, err := generate.Artifacts(def, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", def.Kind, err)
		}
		for _, art := range artifacts {
			path := w.Path(art)
			diff, err := compare(w.FS, path, art)
			if err != nil {
				diff = err.Error()
			}
			if diff == "" {
				continue
			}
			slog.Warn("Artifact is out of date", "kind", def.Kind, "path", path)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (-want +got):\n%s\n", path, diff)
			stale = append(stale, path)
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%d artifacts are out of date: %s", len(stale), strings.Join(stale, ", "))
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All artifacts are up to date")
	return nil
}

// compare returns a human readable diff between the expected artifact and
// the file at path, or "" if they match.
func compare(fs afero.Fs, path string, art render.Artifact) (string, error) {
	if want, ok := art.Doc.(*apiextensionsv1.CustomResourceDefinition); ok {
		got, err := openapi.LoadCRD(fs, path)
		if err != nil {
			return "", err
		}
		delete(got.Annotations, RevisionAnnotation)
		return openapi.Diff(want, got), nil
	}

	want, err := render.Encode(art)
	if err != nil {
		return "", err
	}
	got, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	if bytes.Equal(want, got) {
		return "", nil
	}
	return cmp.Diff(string(want), string(got)), nil
}
