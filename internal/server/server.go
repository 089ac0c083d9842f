// Package server implements the decode HTTP API, its middleware, and the background archive workers.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/config"
	"github.com/woozymasta/a2sdecode/internal/geoip"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/storage"
)

// New creates a new Server instance. Archiving is enabled when cfg asks for it and store is not nil.
func New(store *storage.Repository, geo *geoip.Provider, cfg *config.Config) *Server {
	return &Server{
		storage:        store,
		geoip:          geo,
		pipeline:       inspect.New(cfg.Pipeline()),
		archive:        cfg.Storage.Archive && store != nil,
		session:        storage.NewSession(),
		authToken:      cfg.Server.AuthToken,
		maxBody:        cfg.Server.MaxBodySize,
		trustProxy:     cfg.Server.TrustProxy,
		hardLimitCount: cfg.RateLimit.HardLimitCount,
		hardLimitWin:   cfg.RateLimit.HardLimitWin,
		softLimitDur:   cfg.RateLimit.SoftLimitDur,

		queue:    make(chan archiveJob, 1000),
		shutdown: make(chan struct{}),
	}
}

// Session returns the id records archived by this server are grouped under.
func (s *Server) Session() string {
	return s.session
}

// StartWorkers initializes the background worker pool for archiving results
// and the cache cleanup routine.
func (s *Server) StartWorkers() {
	workers := 4
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	// Clean soft-limit cache
	go s.gcSoftLimitCache()

	log.Debug().Bool("archive", s.archive).Str("session", s.session).Msg("Workers started")
}

// StopWorkers stops the background workers once the queue is drained.
// Results of requests still running afterwards are not archived.
func (s *Server) StopWorkers() {
	s.queueMu.Lock()
	if s.closed {
		s.queueMu.Unlock()
		return
	}
	s.closed = true
	close(s.shutdown)
	close(s.queue)
	s.queueMu.Unlock()

	s.wg.Wait()
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/decode", s.RateLimitMiddleware(http.HandlerFunc(s.handleDecode)))
	mux.Handle("GET /api/records", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleRecords)))
	mux.Handle("GET /api/records/{id}", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleGetRecord)))
	mux.Handle("DELETE /api/records", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleDeleteRecords)))
	mux.Handle("GET /api/version", http.HandlerFunc(s.handleVersion))

	return s.LoggingMiddleware(mux)
}

// gcSoftLimitCache periodically cleans up expired entries from the soft rate-limit cache.
func (s *Server) gcSoftLimitCache() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			now := time.Now()
			s.seenCache.Range(func(key, value any) bool {
				if t, ok := value.(time.Time); !ok || now.Sub(t) > s.softLimitDur {
					s.seenCache.Delete(key)
				}
				return true
			})
		}
	}
}
