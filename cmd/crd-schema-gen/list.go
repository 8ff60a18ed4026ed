package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/buildrlabs/crd-schema-gen/internal/resources"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the resources and the names they can be selected by",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := resources.Select(a.cfg.Resources)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KIND\tNAME\tSHORTNAMES\tSCHEMAS")
			for _, d := range defs {
				schemas := make([]string, 0, len(d.Schemas))
				for _, s := range d.Schemas {
					schemas = append(schemas, s.Name)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					d.Kind, d.Name(), strings.Join(d.ShortNames, ","), strings.Join(schemas, ","))
			}
			return tw.Flush()
		},
	}
}
