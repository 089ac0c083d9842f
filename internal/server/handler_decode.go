package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/capture"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/models"
	"github.com/woozymasta/a2sdecode/internal/storage"
)

// handleDecode decodes the posted datagram and answers with the result as JSON.
// The body is a raw datagram, or hex lines when sent as text/plain or with ?hex=1.
// Decode failures are reported in the result, not as HTTP errors.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	ip := GetRealIP(r, s.trustProxy)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req := parseDecodeRequest(r, ip)

	var dgs []capture.Datagram
	if req.Hex {
		dgs, err = capture.ReadHex(bytes.NewReader(body))
		if err != nil {
			log.Debug().Err(err).Str("ip", ip).Msg("Invalid hex body")
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	} else if len(body) > 0 {
		dgs = []capture.Datagram{{Data: body}}
	}

	if len(dgs) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return
	}

	now := time.Now()
	results := make([]inspect.Result, 0, len(dgs))
	for _, dg := range dgs {
		if dg.Source == "" {
			dg.Source = req.Source
		}
		dg.Time = now

		res := s.pipeline.Process(dg)
		s.enqueue(res)
		results = append(results, res)
	}

	respondJSON(w, http.StatusOK, results)
}

func parseDecodeRequest(r *http.Request, ip string) models.DecodeRequest {
	q := r.URL.Query()

	req := models.DecodeRequest{
		Source: q.Get("source"),
		Hex:    q.Get("hex") == "1" || strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain"),
	}
	if req.Source == "" {
		req.Source = ip
	}

	return req
}

// enqueue hands a result to the archive workers unless the same result was archived within the soft limit.
func (s *Server) enqueue(res inspect.Result) {
	if !s.archive {
		return
	}

	key := storage.Fingerprint(res)
	if val, ok := s.seenCache.Load(key); ok {
		if lastSeen, ok := val.(time.Time); ok && time.Since(lastSeen) < s.softLimitDur {
			log.Trace().
				Str("source", res.Source).
				Str("fingerprint", key).
				Msg("Dropped by soft limit hit")
			return
		}
	}
	s.seenCache.Store(key, time.Now())

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	if s.closed {
		log.Debug().Str("source", res.Source).Msg("Workers stopped, result not archived")
		return
	}

	select {
	case s.queue <- archiveJob{Result: res}:
	default:
		log.Warn().
			Str("source", res.Source).
			Msg("Queue full, result not archived")
	}
}

// worker is a background goroutine that writes queued results to storage.
func (s *Server) worker() {
	defer s.wg.Done()

	for job := range s.queue {
		s.processJob(job)
	}
}

func (s *Server) processJob(job archiveJob) {
	country := s.geoip.CountryCode(job.Result.Source)

	if err := s.storage.SaveResult(s.session, job.Result, country); err != nil {
		log.Error().Err(err).Str("source", job.Result.Source).Msg("Failed to archive result")
		return
	}

	log.Trace().
		Str("source", job.Result.Source).
		Str("country", country).
		Msg("Result archived")
}
