package kbsearch

import (
	"context"
	"errors"
	"time"

	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
)

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health probes the API health endpoint.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	var err error
	if report.Status != healthuc.Healthy {
		err = errors.New(report.Message)
	}
	c.obs.call(callHealth, start, err)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Checks:  checks,
		Message: report.Message,
		Latency: report.Latency,
	}
}

// Ping returns an error unless the API reports itself healthy.
func (c *Client) Ping(ctx context.Context) error {
	h := c.Health(ctx)
	if h.Status != string(healthuc.Healthy) {
		return errors.New("kbsearch: api " + h.Status + ": " + h.Message)
	}
	return nil
}
