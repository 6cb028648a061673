package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/recordfilter/internal/filter"
	"github.com/TimurManjosov/recordfilter/internal/logging"
	"github.com/TimurManjosov/recordfilter/internal/telemetry"
)

// Options tunes the router. Zero values fall back to the defaults below.
type Options struct {
	MaxBodyBytes   int64         // request body limit
	RequestTimeout time.Duration // per-request deadline
	RateLimitPerIP int           // requests per minute per client IP, 0 disables
}

const (
	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 5 * time.Second
)

type Server struct {
	filter *filter.Service
	log    zerolog.Logger
	opts   Options
}

func NewServer(svc *filter.Service, log zerolog.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	return &Server{filter: svc, log: log, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(logging.Middleware(s.log))
	r.Use(middleware.Recoverer, telemetry.Middleware)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/v1/kinds", s.handleKinds)

	r.Group(func(r chi.Router) {
		if s.opts.RateLimitPerIP > 0 {
			r.Use(httprate.Limit(
				s.opts.RateLimitPerIP, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(RateLimitedError),
			))
		}
		// legacy route name, kept for existing clients
		r.Post("/api/FilterData", s.handleFilter)
		r.Post("/v1/filter", s.handleFilter)
	})

	return r
}
