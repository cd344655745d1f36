package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kbsearch/internal/view"
	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

// progressInterval is how often upload progress is redrawn.
const progressInterval = 200 * time.Millisecond

func (a *app) uploadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents for indexing",
		Long: `Uploads PDF, CSV or TXT files. One file is sent on its own; several
files go out as one batch and each is reported separately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads := a.client.Uploads()
			b, err := uploads.SubmitPaths(cmd.Context(), args...)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			if !quiet {
				follow(cmd, uploads, b)
			}
			if err := b.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("upload interrupted: %w", err)
			}

			view.Uploads(cmd.OutOrStdout(), b.Uploads(), uploads.Summary())
			return b.Err()
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw progress")
	return cmd
}

// follow redraws the aggregate progress line on stderr until b resolves.
func follow(cmd *cobra.Command, uploads *kbsearch.UploadService, b *kbsearch.UploadBatch) {
	w := cmd.ErrOrStderr()
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.Done():
			_, _ = fmt.Fprint(w, "\r\033[K")
			return
		case <-cmd.Context().Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, "\r\033[K"+view.SummaryLine(uploads.Summary()))
		}
	}
}
