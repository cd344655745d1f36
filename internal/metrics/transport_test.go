package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterTransportMetrics_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterTransportMetrics(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := RegisterTransportMetrics(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}

	APIRequestsTotal.WithLabelValues("GET", "/stats", "200").Inc()
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/stats", "200")); got < 1 {
		t.Errorf("api_requests_total = %f, want >= 1", got)
	}
	if n, err := testutil.GatherAndCount(reg, "kbsearch_api_requests_total"); err != nil || n == 0 {
		t.Errorf("gathered %d series, err %v", n, err)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "error"},
		{200, "200"},
		{404, "404"},
	}
	for _, tc := range tests {
		if got := StatusLabel(tc.code); got != tc.want {
			t.Errorf("StatusLabel(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
