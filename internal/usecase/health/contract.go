package health

import (
	"context"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
)

// Prober fetches the backend health report.
type Prober interface {
	Health(ctx context.Context) (domdoc.Health, error)
}
