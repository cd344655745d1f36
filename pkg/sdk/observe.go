package kbsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
)

// Call names used as the "call" label and in log records.
const (
	callUpload          = "upload.submit"
	callSearch          = "search.query"
	callDocumentsList   = "documents.list"
	callDocumentsStats  = "documents.stats"
	callDocumentsDelete = "documents.delete"
	callDocumentsClear  = "documents.clear"
	callDocumentsReload = "documents.refresh"
	callHealth          = "health"
)

// outcome classifies a finished call.
type outcome string

const (
	outcomeOK      outcome = "ok"
	outcomePartial outcome = "partial" // some files of a batch were rejected
	outcomeError   outcome = "error"
	outcomeInvalid outcome = "invalid" // rejected locally, nothing was sent
)

// outcomeOf maps a call error onto an outcome.
func outcomeOf(err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrEmptyQuery), errors.Is(err, domain.ErrInvalidFilters):
		return outcomeInvalid
	default:
		return outcomeError
	}
}

// uploadOutcome classifies a resolved batch by its items: ok when every file
// was accepted, error when none was, partial otherwise.
func uploadOutcome(snaps []domupload.Snapshot) (outcome, int) {
	failed := 0
	for _, s := range snaps {
		if s.Status == domupload.StatusFailed {
			failed++
		}
	}
	switch {
	case failed == 0:
		return outcomeOK, 0
	case failed == len(snaps):
		return outcomeError, failed
	default:
		return outcomePartial, failed
	}
}

// callBuckets span 25ms to about 51s, past the default request timeout.
var callBuckets = prometheus.ExponentialBuckets(0.025, 2, 12)

type sdkMetrics struct {
	calls    *prometheus.CounterVec   // call, outcome
	duration *prometheus.HistogramVec // call
	searches *prometheus.CounterVec   // kind
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	calls, err := reuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kbsearch",
		Subsystem: "sdk",
		Name:      "calls_total",
		Help:      "SDK calls by name and outcome (ok, partial, error, invalid).",
	}, []string{"call", "outcome"}))
	if err != nil {
		return nil, err
	}
	duration, err := reuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kbsearch",
		Subsystem: "sdk",
		Name:      "call_duration_seconds",
		Help:      "SDK call duration in seconds. Uploads are measured until the batch resolves.",
		Buckets:   callBuckets,
	}, []string{"call"}))
	if err != nil {
		return nil, err
	}
	searches, err := reuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kbsearch",
		Subsystem: "sdk",
		Name:      "search_results_total",
		Help:      "Successful searches by result kind (answer, ranked).",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	if err := metrics.RegisterTransportMetrics(reg); err != nil {
		return nil, fmt.Errorf("kbsearch: %w", err)
	}
	return &sdkMetrics{calls: calls, duration: duration, searches: searches}, nil
}

// reuse registers c, or returns the collector already registered under the
// same descriptor when a second client shares the registry.
func reuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("kbsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("kbsearch: metric already registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer records SDK calls as metrics and slog records. A nil observer
// and nil fields are no-ops.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// call records a document or health call.
func (o *observer) call(name string, start time.Time, err error) {
	if o == nil {
		return
	}
	oc := outcomeOf(err)
	attrs := []any{}
	if err != nil {
		attrs = append(attrs, "error", ErrorMessage(err))
	}
	o.record(name, oc, time.Since(start), attrs...)
}

// uploaded records a resolved upload batch.
func (o *observer) uploaded(start time.Time, snaps []domupload.Snapshot) {
	if o == nil {
		return
	}
	oc, failed := uploadOutcome(snaps)
	attrs := []any{"files", len(snaps), "failed", failed}
	if failed > 0 {
		for _, s := range snaps {
			if s.Status == domupload.StatusFailed {
				attrs = append(attrs, "first_error", s.Error)
				break
			}
		}
	}
	o.record(callUpload, oc, time.Since(start), attrs...)
}

// searched records a query and, on success, the kind of result it produced.
func (o *observer) searched(start time.Time, res SearchResult, err error) {
	if o == nil {
		return
	}
	oc := outcomeOf(err)
	var attrs []any
	if err != nil {
		attrs = append(attrs, "error", ErrorMessage(err))
	} else {
		attrs = append(attrs, "kind", string(res.Kind()), "refs", len(res.Refs()))
		if o.metrics != nil {
			o.metrics.searches.WithLabelValues(string(res.Kind())).Inc()
		}
	}
	o.record(callSearch, oc, time.Since(start), attrs...)
}

func (o *observer) record(name string, oc outcome, dur time.Duration, attrs ...any) {
	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(name, string(oc)).Inc()
		if oc != outcomeInvalid {
			o.metrics.duration.WithLabelValues(name).Observe(dur.Seconds())
		}
	}
	if o.logger == nil {
		return
	}

	attrs = append([]any{"call", name, "outcome", string(oc), "duration", dur}, attrs...)
	switch oc {
	case outcomeError:
		o.logger.Warn("call failed", attrs...)
	case outcomePartial:
		o.logger.Warn("upload batch partially rejected", attrs...)
	default:
		o.logger.Debug("call finished", attrs...)
	}
}
