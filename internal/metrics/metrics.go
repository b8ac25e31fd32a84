// Package metrics exposes Prometheus instrumentation for the chart
// engine plus a small HTTP server serving /metrics.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart engine.
type Metrics struct {
	FramesTotal      prometheus.Counter
	RendersCoalesced prometheus.Counter
	FrameDur         prometheus.Histogram

	CandlesAppended    prometheus.Counter
	CandlesUpdated     prometheus.Counter
	OutOfOrderRejected prometheus.Counter

	SourceEmits  *prometheus.CounterVec // labels: source
	WSReconnects prometheus.Counter

	ActiveSubscribers prometheus.Gauge
	VisibleCandles    prometheus.Gauge
}

// New creates chart metrics registered on the given registerer. Pass
// prometheus.DefaultRegisterer in binaries; tests use a fresh registry
// to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_frames_total",
			Help: "Total frames rendered",
		}),
		RendersCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_renders_coalesced_total",
			Help: "Render requests absorbed into an already scheduled frame",
		}),
		FrameDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chart_frame_duration_seconds",
			Help:    "Wall time spent rendering one frame",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		CandlesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_candles_appended_total",
			Help: "Candles appended to any series",
		}),
		CandlesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_candles_updated_total",
			Help: "In-place updates of the last candle",
		}),
		OutOfOrderRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_out_of_order_rejected_total",
			Help: "Candles rejected because their timestamp precedes the last bar",
		}),
		SourceEmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chart_source_emits_total",
			Help: "Candles emitted by data sources",
		}, []string{"source"}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chart_ws_reconnects_total",
			Help: "WebSocket source reconnection attempts",
		}),
		ActiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chart_source_subscribers",
			Help: "Active source subscriptions",
		}),
		VisibleCandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chart_visible_candles",
			Help: "Candles inside the current viewport",
		}),
	}

	reg.MustRegister(
		m.FramesTotal,
		m.RendersCoalesced,
		m.FrameDur,
		m.CandlesAppended,
		m.CandlesUpdated,
		m.OutOfOrderRejected,
		m.SourceEmits,
		m.WSReconnects,
		m.ActiveSubscribers,
		m.VisibleCandles,
	)

	return m
}

// Server runs an HTTP server exposing /metrics.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics server for the given address.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
