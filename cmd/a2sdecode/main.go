// main is the entry point of the a2sdecode application.
// It decodes captured A2S traffic from files, or serves the decode HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/config"
	"github.com/woozymasta/a2sdecode/internal/fake"
	"github.com/woozymasta/a2sdecode/internal/geoip"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/logger"
	"github.com/woozymasta/a2sdecode/internal/maintenance"
	"github.com/woozymasta/a2sdecode/internal/report"
	"github.com/woozymasta/a2sdecode/internal/server"
	"github.com/woozymasta/a2sdecode/internal/storage"
	"github.com/woozymasta/a2sdecode/internal/vars"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Debug().Str("version", vars.Version).Msg("Starting a2sdecode...")

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	geoProvider := openGeoIP(cfg)
	defer func() {
		if err := geoProvider.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing GeoIP provider")
		}
	}()

	var store *storage.Repository
	if cfg.Storage.Archive || cfg.Server.Serve || cfg.Maintenance() {
		var err error
		store, err = storage.New(cfg.Storage.Path)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Storage.Path).Msg("Failed to initialize database")
			return 1
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing database")
			}
		}()
	}

	// data generation or database maintenance
	if cfg.Storage.GenerateCount > 0 {
		fake.GenerateData(store, cfg.Storage.GenerateCount)
		return 0
	} else if maintenance.Run(cfg, store) {
		return 0
	}

	if cfg.Server.Serve {
		return serve(cfg, store, geoProvider)
	}

	return decode(cfg, store, geoProvider)
}

// openGeoIP returns nil when lookups are disabled or the database is not usable.
func openGeoIP(cfg *config.Config) *geoip.Provider {
	if cfg.GeoIP.Disable {
		return nil
	}

	log.Debug().Msg("Checking GeoIP database...")
	if err := geoip.EnsureDB(cfg.GeoIP.Path, cfg.GeoIP.URL, cfg.GeoIP.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}

	provider, err := geoip.Open(cfg.GeoIP.Path)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		return nil
	}

	return provider
}

func decode(cfg *config.Config, store *storage.Repository, geo *geoip.Provider) int {
	files := inspect.DecodeFiles(cfg.Args.Files, cfg.Pipeline(), cfg.Files())

	if err := report.Render(os.Stdout, files, cfg.Output.Format); err != nil {
		log.Error().Err(err).Msg("Failed to render report")
		return 1
	}

	if cfg.Storage.Archive {
		archive(store, geo, files)
	}

	for _, f := range files {
		if f.Err != nil {
			return 1
		}
	}

	return 0
}

func archive(store *storage.Repository, geo *geoip.Provider, files []inspect.FileResult) {
	session := storage.NewSession()
	saved := 0

	for _, f := range files {
		for _, res := range f.Results {
			if err := store.SaveResult(session, res, geo.CountryCode(res.Source)); err != nil {
				log.Error().Err(err).Str("path", f.Path).Str("source", res.Source).Msg("Failed to archive result")
				continue
			}
			saved++
		}
	}

	log.Info().Str("session", session).Int("records", saved).Msg("Results archived")
}

func serve(cfg *config.Config, store *storage.Repository, geo *geoip.Provider) int {
	srvHandler := server.New(store, geo, cfg)

	// Background queue
	srvHandler.StartWorkers()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	failed := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Str("session", srvHandler.Session()).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	code := 0
	select {
	case <-quit:
	case err := <-failed:
		log.Error().Err(err).Msg("Server failed")
		code = 1
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop workers (wait queue done)
	srvHandler.StopWorkers()

	log.Info().Msg("Server exited")

	return code
}
