// Package api expone el receptor por HTTP: decodificación de tramas,
// WebSocket, salud y métricas de Prometheus.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/frame"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/metrics"
	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/transport"
)

// ServerConfig agrupa las dependencias del servidor HTTP.
type ServerConfig struct {
	Pipeline *link.Pipeline
	Registry *frame.Registry
	Metrics  *metrics.Metrics // nil = sin /metrics
	Logger   *zap.Logger
	MaxBits  int

	// WSHandler procesa las tramas recibidas por /ws. Si es nil se usa el
	// Pipeline con WSCodec.
	WSHandler transport.FrameHandler
	WSCodec   string
}

type Server struct {
	pipeline *link.Pipeline
	registry *frame.Registry
	logger   *zap.Logger
	maxBits  int
	router   chi.Router
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Server{
		pipeline: cfg.Pipeline,
		registry: cfg.Registry,
		logger:   cfg.Logger,
		maxBits:  cfg.MaxBits,
	}

	wsHandler := cfg.WSHandler
	if wsHandler == nil {
		codec := cfg.WSCodec
		if c, err := cfg.Registry.Lookup(codec); err == nil {
			codec = c.Name()
		}
		wsHandler = func(_ context.Context, d transport.Delivery) *link.Outcome {
			if d.Err != nil {
				return s.pipeline.Fail(codec, d.Bits, d.Err)
			}
			return s.pipeline.Process(d.Frame, codec)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	r.Handle("/ws", transport.NewWSHandler(wsHandler, s.logger, s.maxBits))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/frames/{codec}", s.handleDecode)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve atiende HTTP en ln hasta que ctx se cancela.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	s.logger.Info("api escuchando", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
