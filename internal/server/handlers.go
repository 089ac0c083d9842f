package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/models"
	"github.com/woozymasta/a2sdecode/internal/vars"
)

// handleVersion returns the build information.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, vars.Info())
}

// handleRecords returns archived records.
// Query params: ?session=...&type=I&source=1.2.3.4:27015&failed=1&limit=100
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "Storage disabled", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	filter := models.RecordFilter{
		Session:     q.Get("session"),
		MessageType: q.Get("type"),
		Source:      q.Get("source"),
		FailedOnly:  q.Get("failed") == "1",
		Limit:       100,
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	records, err := s.storage.ListRecords(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch records")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// handleGetRecord returns one archived record by id.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "Storage disabled", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	rec, err := s.storage.GetRecord(id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to fetch record")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// handleDeleteRecords prunes the archive.
// Query params: ?before=72h and/or ?failed=1
func (s *Server) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, "Storage disabled", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	var deleted int64

	if v := q.Get("before"); v != "" {
		age, err := time.ParseDuration(v)
		if err != nil || age <= 0 {
			http.Error(w, "Invalid before duration", http.StatusBadRequest)
			return
		}

		n, err := s.storage.DeleteBefore(time.Now().Add(-age))
		if err != nil {
			log.Error().Err(err).Msg("Failed to delete old records")
			http.Error(w, "Database Error", http.StatusInternalServerError)
			return
		}
		deleted += n
	}

	if q.Get("failed") == "1" {
		n, err := s.storage.DeleteFailed()
		if err != nil {
			log.Error().Err(err).Msg("Failed to delete failed records")
			http.Error(w, "Database Error", http.StatusInternalServerError)
			return
		}
		deleted += n
	}

	log.Info().Int64("deleted", deleted).Msg("Records deleted manually")

	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
