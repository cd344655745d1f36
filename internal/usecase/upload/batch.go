package upload

import (
	"context"
	"slices"

	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
)

// Batch is the handle of one Submit call. A nil *Batch is complete.
type Batch struct {
	items []*domupload.Item
	done  chan struct{}
}

// Items returns the items created by this call, in file order.
func (b *Batch) Items() []*domupload.Item {
	if b == nil {
		return nil
	}
	return slices.Clone(b.items)
}

// Done is closed once every item of the batch is terminal.
func (b *Batch) Done() <-chan struct{} {
	if b == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return b.done
}

// Wait blocks until the batch resolves or ctx ends.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // caller's own context
	}
}

// Snapshots returns the current state of the batch's items.
func (b *Batch) Snapshots() []domupload.Snapshot {
	items := b.Items()
	out := make([]domupload.Snapshot, len(items))
	for i, it := range items {
		out[i] = it.Snapshot()
	}
	return out
}

// Counts tallies items per state.
type Counts struct {
	Queued    int
	Uploading int
	Succeeded int
	Failed    int
	Total     int
}

func (c *Counts) add(s domupload.Status) {
	c.Total++
	switch s {
	case domupload.StatusQueued:
		c.Queued++
	case domupload.StatusUploading:
		c.Uploading++
	case domupload.StatusSucceeded:
		c.Succeeded++
	case domupload.StatusFailed:
		c.Failed++
	}
}

// Summary is the aggregate view over the tracked items.
type Summary struct {
	AnySucceeded bool
	AnyFailed    bool
	Counts       Counts
}
