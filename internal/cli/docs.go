package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kbsearch/internal/view"
	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

func (a *app) docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "Manage indexed documents",
	}
	cmd.AddCommand(a.docsListCmd(), a.docsDeleteCmd(), a.docsClearCmd())
	return cmd
}

func (a *app) docsListCmd() *cobra.Command {
	var (
		f      kbsearch.ListFilter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := a.client.Documents().List(cmd.Context(), f)
			if err != nil {
				return err //nolint:wrapcheck // rendered by Execute
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toJSONDocuments(docs))
			}
			view.Documents(cmd.OutOrStdout(), docs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.DocumentType, "type", "t", "", "only this document type")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "only this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output documents as JSON")
	return cmd
}

func (a *app) docsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete documents by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, id := range args {
				if err := a.client.Documents().Delete(cmd.Context(), id); err != nil {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), view.Error(id+": "+kbsearch.ErrorMessage(err)))
					failed++
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d deletes failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) docsClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear the knowledge base without --yes")
			}
			if err := a.client.Documents().Clear(cmd.Context()); err != nil {
				return err //nolint:wrapcheck // rendered by Execute
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all documents cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing")
	return cmd
}
