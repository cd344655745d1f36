// Package upload tracks file uploads through their lifecycle and reconciles
// per-file outcomes from single and batch responses.
package upload

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
)

// Missing-entry message for batch responses shorter than the request.
const msgNoResult = "no result returned for this file"

// Service owns the tracked upload items. Safe for concurrent use.
// Concurrent Submit calls are independent: each batch only updates its own items.
type Service struct {
	up     Uploader
	logger *zap.Logger
	notify func(domupload.Snapshot)

	mu       sync.Mutex
	items    []*domupload.Item
	inFlight int
}

// New creates an upload service.
func New(up Uploader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{up: up, logger: logger}
}

// WithNotify registers a callback invoked after every item state change.
// The callback runs on the goroutine that applied the change.
func (s *Service) WithNotify(fn func(domupload.Snapshot)) *Service {
	s.notify = fn
	return s
}

// Submit tracks one item per file and starts uploading them. Items are
// uploading by the time Submit returns; the network call runs in the
// background. Empty input is a no-op and returns nil.
func (s *Service) Submit(ctx context.Context, files []domupload.File) *Batch {
	if len(files) == 0 {
		return nil
	}

	items := make([]*domupload.Item, len(files))
	for i, f := range files {
		items[i] = domupload.NewItem(f)
	}

	s.mu.Lock()
	s.items = append(s.items, items...)
	s.inFlight++
	s.mu.Unlock()

	for _, it := range items {
		s.apply(it, it.Start())
	}

	d := &dispatch{svc: s, items: items, files: slices.Clone(files)}
	b := &Batch{items: items, done: make(chan struct{})}
	go func() {
		defer close(b.done)
		defer s.finish()
		d.run(ctx)
	}()
	return b
}

// Remove drops item from the collection by identity. It reports whether
// the item was tracked. An in-flight item still resolves but is no longer listed.
func (s *Service) Remove(item *domupload.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.items, item)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Clear drops every item.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns the tracked items in submission order.
func (s *Service) Items() []*domupload.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Snapshots returns a point-in-time view of every tracked item.
func (s *Service) Snapshots() []domupload.Snapshot {
	items := s.Items()
	out := make([]domupload.Snapshot, len(items))
	for i, it := range items {
		out[i] = it.Snapshot()
	}
	return out
}

// Filter returns the snapshots of items in the given state.
func (s *Service) Filter(status domupload.Status) []domupload.Snapshot {
	var out []domupload.Snapshot
	for _, snap := range s.Snapshots() {
		if snap.Status == status {
			out = append(out, snap)
		}
	}
	return out
}

// Pending reports whether any batch is still in flight.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Summary aggregates the tracked items.
func (s *Service) Summary() Summary {
	var sum Summary
	for _, snap := range s.Snapshots() {
		sum.Counts.add(snap.Status)
	}
	sum.AnySucceeded = sum.Counts.Succeeded > 0
	sum.AnyFailed = sum.Counts.Failed > 0
	return sum
}

func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

// apply logs a rejected transition and publishes the new item state.
func (s *Service) apply(it *domupload.Item, err error) {
	if err != nil {
		s.logger.Warn("upload state change rejected", zap.String("item_id", it.ID()), zap.Error(err))
		return
	}
	snap := it.Snapshot()
	if snap.Status.IsTerminal() {
		metrics.UploadItemsTotal.WithLabelValues(string(snap.Status)).Inc()
	}
	if s.notify != nil {
		s.notify(snap)
	}
}

// dispatch is one Submit call: the files sent and the items created for them.
// Outcomes are applied only to these items, by position.
type dispatch struct {
	svc   *Service
	items []*domupload.Item
	files []domupload.File
}

func (d *dispatch) run(ctx context.Context) {
	if len(d.files) == 1 {
		d.single(ctx)
		return
	}
	d.batch(ctx)
}

func (d *dispatch) single(ctx context.Context) {
	it := d.items[0]
	rec, err := d.svc.up.UploadFile(ctx, d.files[0], func(written, total int64) {
		d.progress(0, written, total)
	})
	if err != nil {
		msg := domain.Message(err)
		d.svc.logger.Info("upload failed",
			zap.String("item_id", it.ID()),
			zap.String("file", it.File().Name()),
			zap.String("error", msg),
		)
		d.svc.apply(it, it.Fail(msg))
		return
	}
	d.svc.apply(it, it.Succeed(rec))
}

func (d *dispatch) batch(ctx context.Context) {
	receipts, err := d.svc.up.UploadFiles(ctx, d.files, d.progress)
	if err != nil {
		msg := domain.Message(err)
		d.svc.logger.Info("batch upload failed",
			zap.Int("files", len(d.files)),
			zap.String("error", msg),
		)
		for _, o := range domupload.AllRejected(len(d.items), msg) {
			d.resolve(o)
		}
		return
	}

	if len(receipts) > len(d.items) {
		d.svc.logger.Warn("batch response has surplus entries",
			zap.Int("files", len(d.items)),
			zap.Int("entries", len(receipts)),
		)
	}
	for i := range d.items {
		if i >= len(receipts) {
			d.resolve(domupload.NewRejected(i, msgNoResult))
			continue
		}
		d.resolve(domupload.FromBatchEntry(i, receipts[i]))
	}
}

func (d *dispatch) resolve(o domupload.Outcome) {
	it := d.items[o.Index()]
	if o.OK() {
		d.svc.apply(it, it.Succeed(*o.Receipt()))
		return
	}
	d.svc.apply(it, it.Fail(o.Message()))
}

func (d *dispatch) progress(index int, written, total int64) {
	if index < 0 || index >= len(d.items) {
		return
	}
	pct := 100
	if total > 0 {
		pct = int(written * 100 / total)
	}
	// Completion is reported by the response, not by the last byte written.
	pct = min(pct, 99)
	it := d.items[index]
	before := it.Snapshot().Progress
	it.SetProgress(pct)
	if after := it.Snapshot(); after.Progress != before && d.svc.notify != nil {
		d.svc.notify(after)
	}
}
