package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/udisondev/nosgo/internal/sink"
)

const metricsNamespace = "nosgo"

// Metrics holds the inspector's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	packets      *prometheus.CounterVec
	bytes        *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	sinkErrors   prometheus.Counter
	connections  *prometheus.GaugeVec
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "packets_total",
			Help:      "Decoded packets by channel and direction.",
		}, []string{"channel", "direction"}),
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bytes_total",
			Help:      "Raw bytes forwarded by channel and direction.",
		}, []string{"channel", "direction"}),
		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_errors_total",
			Help:      "Packets that could not be decoded.",
		}, []string{"channel", "direction"}),
		sinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sink_errors_total",
			Help:      "Failed sink writes.",
		}),
		connections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connections",
			Help:      "Open proxied connections by channel.",
		}, []string{"channel"}),
	}
}

func (m *Metrics) packet(ch sink.Channel, dir sink.Direction) {
	m.packets.WithLabelValues(string(ch), string(dir)).Inc()
}

func (m *Metrics) forwarded(ch sink.Channel, dir sink.Direction, n int) {
	m.bytes.WithLabelValues(string(ch), string(dir)).Add(float64(n))
}

func (m *Metrics) decodeError(ch sink.Channel, dir sink.Direction) {
	m.decodeErrors.WithLabelValues(string(ch), string(dir)).Inc()
}

func (m *Metrics) sinkError() {
	m.sinkErrors.Inc()
}

func (m *Metrics) connOpened(ch sink.Channel) {
	m.connections.WithLabelValues(string(ch)).Inc()
}

func (m *Metrics) connClosed(ch sink.Channel) {
	m.connections.WithLabelValues(string(ch)).Dec()
}

// Handler returns the HTTP router: /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}

// Serve runs the metrics HTTP server on ln until ctx is done.
func (m *Metrics) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown", "err", err)
		}
	}()

	slog.Info("metrics server started", "address", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving metrics: %w", err)
	}
	return nil
}
