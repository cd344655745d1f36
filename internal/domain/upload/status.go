package upload

// Status is the lifecycle state of an upload item.
type Status string

// Upload status values.
const (
	StatusQueued    Status = "queued"
	StatusUploading Status = "uploading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// AcceptedStatus is the batch entry status the server uses for an accepted file.
const AcceptedStatus = "processing"

// IsTerminal reports whether the status is succeeded or failed.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusUploading, StatusSucceeded, StatusFailed:
		return true
	default:
		return false
	}
}
