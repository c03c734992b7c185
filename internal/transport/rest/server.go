package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/internal/config"
	"github.com/ZaguanLabs/codelai/internal/transport/middleware"
)

// Server is the HTTP front of the translator.
type Server struct {
	cfg     config.ServerConfig
	http    *http.Server
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewServer builds the routes and middleware for t.
func NewServer(cfg config.ServerConfig, t translator, logger *slog.Logger) *Server {
	h := NewHandler(t, cfg.MaxBodyBytes, logger)
	s := &Server{cfg: cfg, logger: logger}

	translate := http.Handler(http.HandlerFunc(h.Translate))
	if cfg.RateLimitRPM > 0 {
		s.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimitRPM,
			BurstSize:         cfg.RateLimitBurst,
		}, time.Minute)
		translate = s.limiter.Limit()(translate)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/translate", middleware.Timeout(cfg.RequestTimeout)(translate))
	mux.HandleFunc("POST /v1/dictionary/reset", h.Reset)
	mux.HandleFunc("GET /health", h.Health)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		serverHeader,
	)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      chain(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.stopLimiter()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) stopLimiter() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", codelai.UserAgent())
		next.ServeHTTP(w, r)
	})
}
