package upload

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Item tracks one file through queued → uploading → succeeded|failed.
// Identity is the *Item pointer; two items for files with equal names are distinct.
// Only the upload orchestrator calls the transition methods.
type Item struct {
	id   string
	file File

	mu       sync.RWMutex
	status   Status
	progress int
	receipt  *Receipt
	errMsg   string
}

// NewItem creates a queued item for a file.
func NewItem(f File) *Item {
	return &Item{id: uuid.NewString(), file: f, status: StatusQueued}
}

// ID returns a display identifier. Not used for identity.
func (it *Item) ID() string { return it.id }

// File returns the immutable file handle.
func (it *Item) File() File { return it.file }

// Status returns the current state.
func (it *Item) Status() Status {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.status
}

// Start moves a queued item to uploading.
func (it *Item) Start() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.status != StatusQueued {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, it.status, StatusUploading)
	}
	it.status = StatusUploading
	return nil
}

// SetProgress records best-effort progress (0-100) while uploading.
// Progress never moves backwards; values outside the range are clamped.
func (it *Item) SetProgress(pct int) {
	pct = min(max(pct, 0), 100)
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.status == StatusUploading && pct > it.progress {
		it.progress = pct
	}
}

// Succeed marks the item accepted with the server payload.
func (it *Item) Succeed(r Receipt) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.status != StatusUploading {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, it.status, StatusSucceeded)
	}
	it.status = StatusSucceeded
	it.progress = 100
	it.receipt = &r
	return nil
}

// Fail marks the item failed with a human-readable message.
func (it *Item) Fail(message string) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.status != StatusUploading {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, it.status, StatusFailed)
	}
	if message == "" {
		message = "upload failed"
	}
	it.status = StatusFailed
	it.errMsg = message
	return nil
}

// Snapshot returns a consistent copy of the item state.
func (it *Item) Snapshot() Snapshot {
	it.mu.RLock()
	defer it.mu.RUnlock()
	s := Snapshot{
		Item:     it,
		ID:       it.id,
		Name:     it.file.name,
		Size:     it.file.size,
		Status:   it.status,
		Progress: it.progress,
		Error:    it.errMsg,
	}
	if it.receipt != nil {
		r := *it.receipt
		s.Receipt = &r
	}
	return s
}

// Snapshot is a point-in-time view of an Item.
// Receipt is set iff Status is succeeded; Error is set iff Status is failed.
type Snapshot struct {
	Item     *Item
	ID       string
	Name     string
	Size     int64
	Status   Status
	Progress int
	Receipt  *Receipt
	Error    string
}
