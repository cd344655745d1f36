package upload

import (
	"encoding/json"
	"testing"
)

func TestFromBatchEntry(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantOK  bool
		wantMsg string
	}{
		{"accepted", `{"status":"processing","filename":"a.txt"}`, true, ""},
		{"rejected with error", `{"status":"error","error":"unsupported type"}`, false, "unsupported type"},
		{"rejected with detail", `{"status":"failed","detail":"too large"}`, false, "too large"},
		{"rejected bare", `{"status":"skipped"}`, false, `upload rejected: status "skipped"`},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := DecodeReceipt(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("DecodeReceipt: %v", err)
			}
			o := FromBatchEntry(i, r)
			if o.OK() != tc.wantOK {
				t.Errorf("OK() = %v, want %v", o.OK(), tc.wantOK)
			}
			if o.Message() != tc.wantMsg {
				t.Errorf("Message() = %q, want %q", o.Message(), tc.wantMsg)
			}
			if o.Index() != i {
				t.Errorf("Index() = %d, want %d", o.Index(), i)
			}
			if tc.wantOK && string(o.Receipt().Raw) != tc.raw {
				t.Errorf("Raw = %s", o.Receipt().Raw)
			}
		})
	}
}

func TestDecodeReceipt_Invalid(t *testing.T) {
	if _, err := DecodeReceipt(json.RawMessage(`[1,2]`)); err == nil {
		t.Error("expected error for non-object payload")
	}
}

func TestAllRejected(t *testing.T) {
	out := AllRejected(3, "network down")
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	for i, o := range out {
		if o.OK() || o.Message() != "network down" || o.Index() != i {
			t.Errorf("outcome %d = %+v", i, o)
		}
	}
}
