package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and the
// ingestion/publication pipelines. All recording methods are safe on a
// nil receiver so pipelines can run unmetered in tests.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	eventsSynced    *prometheus.CounterVec
	eventsSkipped   *prometheus.CounterVec
	writeFailures   *prometheus.CounterVec
	eventsPublished prometheus.Counter
	eventsMerged    prometheus.Counter
}

// New constructs a collector with its own registry.
func New() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "locol",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	eventsSynced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "ingest",
		Name:      "events_synced_total",
		Help:      "Event drafts written to staging, by source.",
	}, []string{"source"})

	eventsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "ingest",
		Name:      "events_skipped_total",
		Help:      "Event drafts skipped as duplicates, by source.",
	}, []string{"source"})

	writeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "ingest",
		Name:      "write_failures_total",
		Help:      "Staging/catalog writes that failed, by source.",
	}, []string{"source"})

	eventsPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "publish",
		Name:      "events_published_total",
		Help:      "Staged events promoted to the public catalog.",
	})

	eventsMerged := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "locol",
		Subsystem: "merge",
		Name:      "events_merged_total",
		Help:      "Duplicate catalog events absorbed by a merge sweep.",
	})

	for _, c := range []prometheus.Collector{
		requestDuration, requestTotal,
		eventsSynced, eventsSkipped, writeFailures,
		eventsPublished, eventsMerged,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		eventsSynced:    eventsSynced,
		eventsSkipped:   eventsSkipped,
		writeFailures:   writeFailures,
		eventsPublished: eventsPublished,
		eventsMerged:    eventsMerged,
	}, nil
}

// AddSynced records drafts written to staging for a source.
func (c *Collector) AddSynced(source string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.eventsSynced.WithLabelValues(source).Add(float64(n))
}

// AddSkipped records drafts skipped as duplicates for a source.
func (c *Collector) AddSkipped(source string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.eventsSkipped.WithLabelValues(source).Add(float64(n))
}

// AddWriteFailures records failed store writes for a source.
func (c *Collector) AddWriteFailures(source string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.writeFailures.WithLabelValues(source).Add(float64(n))
}

// AddPublished records staged events promoted to the catalog.
func (c *Collector) AddPublished(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.eventsPublished.Add(float64(n))
}

// AddMerged records duplicates absorbed by a merge sweep.
func (c *Collector) AddMerged(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.eventsMerged.Add(float64(n))
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	if c == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)

		c.requestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
