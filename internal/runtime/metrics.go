package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	loggingpkg "github.com/drblury/kioskwire/internal/runtime/logging"
)

// Metrics holds the Prometheus collectors of the dispatcher.
type Metrics struct {
	mu sync.Mutex

	dispatchedTotal *prometheus.CounterVec
	listenerCalls   *prometheus.CounterVec
	sendsTotal      *prometheus.CounterVec
	sendFailures    *prometheus.CounterVec
	noConsumerTotal *prometheus.CounterVec
	exceptionsTotal *prometheus.CounterVec
	dispatchSeconds *prometheus.HistogramVec

	registerer prometheus.Registerer
	registered bool
}

// newDispatchCounterVec creates a counter vec under the kioskwire/dispatch namespace.
func newDispatchCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kioskwire",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewMetrics creates the dispatcher collectors. A nil registerer selects the
// Prometheus default registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Metrics{
		registerer:      registerer,
		dispatchedTotal: newDispatchCounterVec("envelopes_total", "Envelopes dispatched, by tag and effective route", []string{"tag", "route"}),
		listenerCalls:   newDispatchCounterVec("listener_invocations_total", "Local listener invocations", []string{"tag"}),
		sendsTotal:      newDispatchCounterVec("sends_total", "Envelopes handed to the socket", []string{"tag"}),
		sendFailures:    newDispatchCounterVec("send_failures_total", "Socket writes that failed", []string{"tag"}),
		noConsumerTotal: newDispatchCounterVec("no_consumer_total", "Dispatches that reached no listener and no socket", []string{"tag"}),
		exceptionsTotal: newDispatchCounterVec("exceptions_total", "Exception envelopes raised at the connection boundary", []string{"etype"}),
		dispatchSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kioskwire",
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Time spent dispatching one envelope, listeners included",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"tag"},
		),
	}
}

// Register registers the collectors. Safe to call multiple times; when a
// collector is already registered the existing one is reused.
func (m *Metrics) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	var err error
	if m.dispatchedTotal, err = registerCounterVec(m.registerer, m.dispatchedTotal); err != nil {
		return err
	}
	if m.listenerCalls, err = registerCounterVec(m.registerer, m.listenerCalls); err != nil {
		return err
	}
	if m.sendsTotal, err = registerCounterVec(m.registerer, m.sendsTotal); err != nil {
		return err
	}
	if m.sendFailures, err = registerCounterVec(m.registerer, m.sendFailures); err != nil {
		return err
	}
	if m.noConsumerTotal, err = registerCounterVec(m.registerer, m.noConsumerTotal); err != nil {
		return err
	}
	if m.exceptionsTotal, err = registerCounterVec(m.registerer, m.exceptionsTotal); err != nil {
		return err
	}
	if err := m.registerer.Register(m.dispatchSeconds); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return err
		}
		if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
			m.dispatchSeconds = existing
		}
	}

	m.registered = true
	return nil
}

func registerCounterVec(r prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return c, err
		}
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return c, nil
}

// The record helpers accept a nil receiver so a connection without metrics
// needs no checks at the call sites.

func (m *Metrics) recordDispatch(tag, route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "none"
	}
	m.dispatchedTotal.WithLabelValues(tag, route).Inc()
	m.dispatchSeconds.WithLabelValues(tag).Observe(elapsed.Seconds())
}

func (m *Metrics) recordListener(tag string) {
	if m == nil {
		return
	}
	m.listenerCalls.WithLabelValues(tag).Inc()
}

func (m *Metrics) recordSend(tag string, err error) {
	if m == nil {
		return
	}
	m.sendsTotal.WithLabelValues(tag).Inc()
	if err != nil {
		m.sendFailures.WithLabelValues(tag).Inc()
	}
}

func (m *Metrics) recordNoConsumer(tag string) {
	if m == nil {
		return
	}
	m.noConsumerTotal.WithLabelValues(tag).Inc()
}

func (m *Metrics) recordException(etype string) {
	if m == nil {
		return
	}
	m.exceptionsTotal.WithLabelValues(etype).Inc()
}

// MetricsServer exposes /metrics over HTTP through promhttp.
type MetricsServer struct {
	server *http.Server
	mux    *http.ServeMux
	logger loggingpkg.ServiceLogger
}

// NewMetricsServer returns a server for gatherer on port. A nil gatherer
// selects the Prometheus default gatherer.
func NewMetricsServer(port int, gatherer prometheus.Gatherer, logger loggingpkg.ServiceLogger) *MetricsServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = loggingpkg.NewNopLogger()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		mux:    mux,
		logger: logger,
	}
}

// Handle mounts an additional handler next to /metrics. Call it before Start.
func (s *MetricsServer) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Handler returns the HTTP handler serving /metrics.
func (s *MetricsServer) Handler() http.Handler { return s.server.Handler }

// Start binds the port and serves in the background until ctx is cancelled
// or Shutdown is called. A port that cannot be bound is logged and the
// server stays down.
func (s *MetricsServer) Start(ctx context.Context) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.logger.Error("Metrics server failed", err, loggingpkg.LogFields{"address": s.server.Addr})
		return
	}
	s.logger.Info("Starting metrics server", loggingpkg.LogFields{"address": ln.Addr().String()})
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", err, loggingpkg.LogFields{"address": s.server.Addr})
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
