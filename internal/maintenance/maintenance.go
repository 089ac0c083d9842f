// Package maintenance provide tools for clean and update database
package maintenance

import (
	"sync/atomic"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/config"
	"github.com/woozymasta/a2sdecode/internal/models"
	"github.com/woozymasta/a2sdecode/internal/storage"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Stats counts the outcome of a redecode run.
type Stats struct {
	Decoded int64
	Failed  int64
	Skipped int64
}

// Run checks if any maintenance flags are set and executes the corresponding tasks.
// Returns true if a maintenance task was executed (indicating the program should exit).
func Run(cfg *config.Config, store *storage.Repository) bool {
	ran := false

	if cfg.Storage.PruneBefore > 0 {
		ran = true
		cutoff := time.Now().Add(-cfg.Storage.PruneBefore)
		log.Info().Time("before", cutoff).Msg("Pruning old records...")

		count, err := store.DeleteBefore(cutoff)
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune records")
		} else {
			log.Info().Int64("deleted", count).Msg("Prune finished")
		}
	}

	if cfg.Storage.PruneFailed {
		ran = true
		log.Info().Msg("Pruning failed records...")

		count, err := store.DeleteFailed()
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune records")
		} else {
			log.Info().Int64("deleted", count).Msg("Prune finished")
		}
	}

	if cfg.Storage.Redecode {
		ran = true
		completion := a2s.Strict
		if cfg.Decode.Lenient {
			completion = a2s.Lenient
		}

		stats, err := Redecode(store, completion, cfg.Input.Workers)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch records")
		} else {
			log.Info().
				Int64("decoded", stats.Decoded).
				Int64("failed", stats.Failed).
				Int64("skipped", stats.Skipped).
				Msg("Redecode finished")
		}
	}

	return ran
}

// Redecode decodes every archived payload again and stores the refreshed records.
func Redecode(store *storage.Repository, c a2s.Completion, workers int) (Stats, error) {
	records, err := store.ListRecords(models.RecordFilter{})
	if err != nil {
		return Stats{}, err
	}

	if workers < 1 {
		workers = 1
	}
	log.Info().Int("count", len(records)).Msgf("Starting redecode with %d workers...", workers)

	var decoded, failed, skipped atomic.Int64
	swg := sizedwaitgroup.New(workers)

	for _, rec := range records {
		swg.Add()
		go func(rec models.Record) {
			defer swg.Done()

			switch processRecord(store, rec, c) {
			case outcomeDecoded:
				decoded.Add(1)
			case outcomeFailed:
				failed.Add(1)
			default:
				skipped.Add(1)
			}
		}(rec)
	}
	swg.Wait()

	return Stats{Decoded: decoded.Load(), Failed: failed.Load(), Skipped: skipped.Load()}, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDecoded
	outcomeFailed
)

func processRecord(store *storage.Repository, rec models.Record, c a2s.Completion) outcome {
	logCtx := log.With().
		Int64("id", rec.ID).
		Str("source", rec.Source).
		Str("type", rec.MessageType).
		Logger()

	if len(rec.MessageType) != 1 {
		logCtx.Trace().Msg("No message to decode")
		return outcomeSkipped
	}

	result := outcomeDecoded
	if err := storage.Redecode(&rec, c); err != nil {
		logCtx.Debug().Err(err).Msg("Record still fails to decode")
		result = outcomeFailed
	}

	if err := store.UpdateDecoded(rec); err != nil {
		logCtx.Error().Err(err).Msg("Failed to update record")
		return outcomeSkipped
	}

	logCtx.Trace().Msg("Record updated")

	return result
}
