// Package http exposes the calculation engine over a JSON API. Each request
// carries an envelope; the response envelope comes back on the same
// connection, so the correlation id mostly matters to clients multiplexing
// through the AMQP transport, but the contract is kept identical here.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fincalc/internal/cache"
	"fincalc/internal/engine"
	"fincalc/internal/log"
	"fincalc/internal/storage"
)

// maxBodyBytes bounds calculation payloads at 4MB.
const maxBodyBytes = 4 << 20

type Server struct {
	http.Server

	engine   *engine.Engine
	recorder storage.Recorder
	logger   *log.Logger

	rateLimiter   *rateLimiter
	responseCache *cache.LRUCache[engine.Response]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// Options tune the gateway; zero values disable the corresponding feature.
type Options struct {
	RateLimitPerMinute int
	CacheSize          int
	CacheTTL           time.Duration
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, eng *engine.Engine, recorder storage.Recorder, logger *log.Logger, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		engine:   eng,
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	if opts.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(opts.RateLimitPerMinute)
	}
	if opts.CacheSize > 0 && opts.CacheTTL > 0 {
		s.responseCache = cache.NewLRUCache[engine.Response](opts.CacheSize, opts.CacheTTL)
		s.cacheManager = cache.NewManager()
		s.cacheManager.Register(s.responseCache)
		s.cacheManager.StartCleanup(10 * time.Minute)
	}

	mux.HandleFunc("POST /api/v1/calculate", s.handleCalculate)
	mux.HandleFunc("GET /api/v1/operations", s.handleOperations)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.Handler = log.Middleware(s.logger)(mux)
	return s
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
