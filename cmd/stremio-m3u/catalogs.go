package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	stremiom3u "github.com/xybydy/stremio-m3u"
)

// newCatalogsCmd lists the catalogs of the addon, to find IDs for --movie-catalog and --series-catalog.
func newCatalogsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogs",
		Short: "List the catalogs of the addon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := optionsFrom(v)
			if err != nil {
				return err
			}
			opts.Output = cmd.OutOrStdout()

			extractor, err := stremiom3u.NewExtractor(opts)
			if err != nil {
				return fmt.Errorf("couldn't create extractor: %w", err)
			}
			manifest, err := extractor.Manifest(cmd.Context())
			if err != nil {
				return err
			}
			catalogs := manifest.Catalogs
			if t, _ := cmd.Flags().GetString("type"); t != "" {
				catalogs = manifest.CatalogsOfType(t)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", manifest.Name, manifest.Version)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tID\tNAME\tPAGEABLE")
			for _, c := range catalogs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.Type, c.ID, c.Name, c.Pageable())
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("type", "", `Only list catalogs of this type, e.g. "movie" or "series"`)
	return cmd
}
