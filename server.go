package fleettracks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoremus-urban-solutions/fleet-tracks/config"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
)

// Server serves track payloads over HTTP.
type Server struct {
	cfg     config.ServerConfig
	page    *PageDataSource
	started time.Time
}

func NewServer(cfg config.ServerConfig, page *PageDataSource) *Server {
	return &Server{cfg: cfg, page: page, started: time.Now()}
}

// Handler returns the router with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimitPerMin > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitPerMin, time.Minute))
		}
		r.Get("/track_data", s.handleTrackData)
		r.Get("/track_data/", s.handleTrackData)
		r.Get("/cached_periods", s.handleCachedPeriods)
		r.Get("/cached_periods/", s.handleCachedPeriods)
	})

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       millis(s.cfg.ReadTimeoutMS, 10*time.Second),
		WriteTimeout:      millis(s.cfg.WriteTimeoutMS, 30*time.Second),
		IdleTimeout:       60 * time.Second,
	}
	log := internal.Logger()
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("server listening")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), millis(s.cfg.ShutdownTimeoutMS, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return err
	}
	log.Info().Msg("server shut down successfully")
	return nil
}

func millis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		internal.Logger().Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(started)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("request")
	})
}
