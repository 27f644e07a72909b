//go:build !(rp2040 || rp2350)

// Package metrics counts loop activity from env/tick reports and serves the
// counters over HTTP when config/metrics names a listen address. Reading
// values themselves are never exported.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"envpaper-go/bus"
	"envpaper-go/services/config"
	"envpaper-go/services/envdisplay"
	"envpaper-go/types"
)

type Service struct {
	reg            *prometheus.Registry
	ticks          prometheus.Counter
	sensorFailures prometheus.Counter
	redraws        *prometheus.CounterVec
	redrawFailures *prometheus.CounterVec
	log            logrus.FieldLogger

	mu   sync.Mutex
	srv  *http.Server
	addr string
}

func New(log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		reg: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envpaper_ticks_total",
			Help: "Polling ticks completed.",
		}),
		sensorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envpaper_sensor_failures_total",
			Help: "Ticks whose sensor sample failed.",
		}),
		redraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "envpaper_redraws_total",
			Help: "Successful field redraws.",
		}, []string{"field"}),
		redrawFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "envpaper_redraw_failures_total",
			Help: "Field redraws aborted by a refresh failure.",
		}, []string{"field"}),
		log: log.WithField("svc", "metrics"),
	}
	s.reg.MustRegister(s.ticks, s.sensorFailures, s.redraws, s.redrawFailures)
	return s
}

// Handler serves the service's registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}

// Observe folds one tick report into the counters.
func (s *Service) Observe(rep types.TickReport) {
	s.ticks.Inc()
	if !rep.Valid {
		s.sensorFailures.Inc()
	}
	for _, f := range rep.Redrawn {
		s.redraws.WithLabelValues(f.String()).Inc()
	}
	for _, f := range rep.Failed {
		s.redrawFailures.WithLabelValues(f.String()).Inc()
	}
}

// Addr is the bound listen address, or "" when not serving.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Service) listen(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownLocked()
	if addr == "" {
		return
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.log.WithError(err).WithField("listen", addr).Error("metrics listener failed")
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.srv = srv
	s.addr = ln.Addr().String()
	s.log.WithField("listen", s.addr).Info("serving metrics")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("metrics server stopped")
		}
	}()
}

func (s *Service) shutdownLocked() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
	s.srv = nil
	s.addr = ""
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(config.TopicFor("metrics"))
	defer conn.Unsubscribe(cfgSub)
	tickSub := conn.Subscribe(envdisplay.TopicTick())
	defer conn.Unsubscribe(tickSub)

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.shutdownLocked()
			s.mu.Unlock()
			s.log.Info("stopping")
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if mc, ok := msg.Payload.(types.MetricsConfig); ok && mc.Listen != s.Addr() {
				s.listen(mc.Listen)
			}
		case msg, ok := <-tickSub.Channel():
			if !ok {
				return
			}
			if rep, ok := msg.Payload.(types.TickReport); ok {
				s.Observe(rep)
			}
		}
	}
}

// Start the metrics service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
