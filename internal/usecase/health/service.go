package health

import (
	"context"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the API answered and reports itself healthy.
	Healthy Status = "ok"
	// Degraded indicates the API answered with a non-healthy status.
	Degraded Status = "degraded"
	// Unhealthy indicates the API could not be reached.
	Unhealthy Status = "error"
)

// CheckResult represents an individual check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckAPI     = "api"
	CheckBackend = "backend"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Message string
	Latency time.Duration
}

// Service probes the search API.
type Service struct {
	prober Prober
}

// New creates a Service.
func New(prober Prober) *Service {
	return &Service{prober: prober}
}

// Check calls the health endpoint once.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	start := time.Now()
	h, err := s.prober.Health(ctx)
	latency := time.Since(start)

	if err != nil {
		checks[CheckAPI] = CheckError
		return Report{Status: Unhealthy, Checks: checks, Message: domain.Message(err), Latency: latency}
	}
	checks[CheckAPI] = CheckOK

	status := Healthy
	if h.IsHealthy() {
		checks[CheckBackend] = CheckOK
	} else {
		checks[CheckBackend] = CheckError
		status = Degraded
	}

	msg := h.Message
	if msg == "" {
		msg = h.Status
	}
	return Report{Status: status, Checks: checks, Message: msg, Latency: latency}
}
