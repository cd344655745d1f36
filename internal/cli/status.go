package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kbsearch/internal/version"
	"github.com/kailas-cloud/kbsearch/internal/view"
)

func (a *app) statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge-base counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.Documents().Stats(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // rendered by Execute
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toJSONStats(st))
			}
			view.Stats(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output stats as JSON")
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := a.client.Health(cmd.Context())
			view.Health(cmd.OutOrStdout(), h)
			if h.Status != "ok" {
				return errNotHealthy
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kbsearch %s\n", version.String())
		},
	}
}
