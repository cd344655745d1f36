package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kbsearch/internal/view"
	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

type searchFlags struct {
	types      []string
	categories []string
	threshold  float64
	noRAG      bool
	json       bool
}

func (a *app) searchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long: `Runs a semantic search. With RAG enabled (default) the server answers
with a generated summary and its sources; otherwise a ranked list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := kbsearch.Filters{
				DocumentTypes:       f.types,
				Categories:          f.categories,
				SimilarityThreshold: a.cfg.Threshold(),
				UseRAG:              a.cfg.RAG() && !f.noRAG,
			}
			if cmd.Flags().Changed("threshold") {
				filters.SimilarityThreshold = f.threshold
			}

			res, err := a.client.Search().Query(cmd.Context(), strings.Join(args, " "), filters)
			if err != nil {
				return err //nolint:wrapcheck // rendered by Execute
			}
			if f.json {
				return writeJSON(cmd.OutOrStdout(), toJSONResult(res))
			}
			view.Result(cmd.OutOrStdout(), res)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVarP(&f.types, "type", "t", nil, "document types to search (repeatable)")
	fl.StringSliceVarP(&f.categories, "category", "c", nil, "categories to search (repeatable)")
	fl.Float64Var(&f.threshold, "threshold", 0, "similarity threshold 0..1 (default from config)")
	fl.BoolVar(&f.noRAG, "no-rag", false, "return a ranked list instead of a generated answer")
	fl.BoolVar(&f.json, "json", false, "output results as JSON")
	return cmd
}
