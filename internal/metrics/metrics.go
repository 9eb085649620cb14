// Package metrics exposes Prometheus metrics for HTTP traffic, widget calls
// and editor activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flowdesk/internal/bridge"
	"flowdesk/internal/domain"
	"flowdesk/internal/service"
)

// Namespace prefixes every metric name
const Namespace = "flowdesk"

// Call outcome labels
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusTimeout = "timeout"
	StatusClosed  = "closed"
	StatusError   = "error"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec

	// Editor metrics
	EditorEvents   *prometheus.CounterVec
	SnapshotsSaved prometheus.Counter
}

var _ bridge.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		BridgeCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "bridge_calls_total",
				Help:      "Total number of editor widget calls",
			},
			[]string{"method", "status"},
		),
		BridgeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "bridge_call_duration_seconds",
				Help:      "Editor widget call duration in seconds",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method"},
		),
		EditorEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "editor_events_total",
				Help:      "Total number of editor events by type",
			},
			[]string{"type"},
		),
		SnapshotsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "snapshots_saved_total",
				Help:      "Total number of stored document snapshots",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.BridgeCalls,
		c.BridgeDuration,
		c.EditorEvents,
		c.SnapshotsSaved,
	)
	return c
}

// RegisterSessions exposes the live session count reported by count
func (c *Collector) RegisterSessions(count func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sessions",
			Help:      "Number of connected editor pages",
		},
		func() float64 { return float64(count()) },
	))
}

// ObserveCall implements bridge.Observer
func (c *Collector) ObserveCall(method string, elapsed time.Duration, err error) {
	c.BridgeCalls.WithLabelValues(method, CallStatus(err)).Inc()
	if elapsed > 0 {
		c.BridgeDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Consume counts editor events until ctx is done or events is closed
func (c *Collector) Consume(ctx context.Context, events <-chan service.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.EditorEvents.WithLabelValues(string(ev.Type)).Inc()
			if ev.Type == service.EventSnapshotSaved {
				c.SnapshotsSaved.Inc()
			}
		}
	}
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CallStatus classifies a bridge call error as a metric label
func CallStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, domain.ErrInvalidParams), errors.Is(err, domain.ErrMalformedDocument):
		return StatusInvalid
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, bridge.ErrClosed):
		return StatusClosed
	default:
		return StatusError
	}
}
