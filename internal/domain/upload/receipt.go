package upload

import (
	"encoding/json"
	"fmt"
)

// Receipt is the server's success payload for one file.
// Known fields are decoded for display; Raw keeps the payload as sent.
type Receipt struct {
	Filename        string          `json:"filename,omitempty"`
	Message         string          `json:"message,omitempty"`
	Status          string          `json:"status,omitempty"`
	FileType        string          `json:"file_type,omitempty"`
	ChunksProcessed int             `json:"chunks_processed,omitempty"`
	Error           string          `json:"error,omitempty"`
	Detail          string          `json:"detail,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

// DecodeReceipt parses a raw per-file payload.
func DecodeReceipt(raw json.RawMessage) (Receipt, error) {
	var r Receipt
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &r); err != nil {
			return Receipt{}, fmt.Errorf("decode receipt: %w", err)
		}
	}
	r.Raw = append(json.RawMessage(nil), raw...)
	return r, nil
}

// FailureMessage returns the message explaining a rejected batch entry.
func (r Receipt) FailureMessage() string {
	switch {
	case r.Error != "":
		return r.Error
	case r.Detail != "":
		return r.Detail
	case r.Message != "":
		return r.Message
	default:
		return `upload rejected: status "` + r.Status + `"`
	}
}
