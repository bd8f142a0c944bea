package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldops/drone-records/internal/store"
)

// Run loads each manifest file and writes its records through the store.
// Manifests are processed in order; a failing manifest stops the run.
func Run(ctx context.Context, config *Config, manifests []string, logger *slog.Logger) error {
	s := store.NewSqliteStore(config.Storage.DatabaseFile)
	defer s.Close()

	for _, path := range manifests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ingestManifest(ctx, s, path, logger); err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
	}
	return nil
}

func ingestManifest(ctx context.Context, s store.Store, path string, logger *slog.Logger) error {
	m, err := LoadManifest(path)
	if err != nil {
		return err
	}

	for _, fl := range m.FlightLogs {
		id, err := s.AddFlightLog(ctx, fl.Timestamp, fl.Telemetry)
		if err != nil {
			return fmt.Errorf("adding flight log: %w", err)
		}
		logger.Debug("stored flight log",
			slog.Int64("id", id),
			slog.String("timestamp", fl.Timestamp),
			slog.Int("channels", len(fl.Telemetry)))
	}

	for _, d := range m.Detections {
		id, err := s.AddDetection(ctx, d.Record())
		if err != nil {
			return fmt.Errorf("adding detection: %w", err)
		}
		logger.Debug("stored detection",
			slog.Int64("id", id),
			slog.String("category", d.Category))
	}

	logger.Info("manifest ingested",
		slog.String("path", path),
		slog.Int("flightLogs", len(m.FlightLogs)),
		slog.Int("detections", len(m.Detections)))
	return nil
}
