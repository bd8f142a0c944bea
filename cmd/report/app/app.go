package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/fieldops/drone-records/internal/record"
	"github.com/fieldops/drone-records/internal/store"
)

// Run summarizes the contents of an existing record database to w.
func Run(ctx context.Context, config *Config, w io.Writer, logger *slog.Logger) error {
	stat, err := os.Stat(config.DBPath)
	if err != nil {
		return fmt.Errorf("database file '%s': %w", config.DBPath, err)
	}

	s := store.NewSqliteStore(config.DBPath)
	defer s.Close()

	fmt.Fprintf(w, "Database: %s (%s)\n", config.DBPath, humanize.Bytes(uint64(stat.Size())))

	if config.FlightLogs {
		if err := reportFlightLogs(ctx, s, w, config.Verbose); err != nil {
			return err
		}
	}
	if config.Detections {
		if err := reportDetections(ctx, s, w, config.Verbose); err != nil {
			return err
		}
	}

	logger.Debug("report complete", slog.String("db", config.DBPath))
	return nil
}

func reportFlightLogs(ctx context.Context, s store.Store, w io.Writer, verbose bool) error {
	logs, err := s.FlightLogs(ctx)
	if err != nil {
		return fmt.Errorf("reading flight logs: %w", err)
	}

	fmt.Fprintf(w, "\nFlight logs: %s\n", humanize.Comma(int64(len(logs))))
	if !verbose {
		return nil
	}

	for _, log := range logs {
		fmt.Fprintf(w, "  #%d  %s  %d channels, %s samples\n",
			log.ID, log.Timestamp, len(log.Telemetry), humanize.Comma(sampleCount(log.Telemetry)))
	}
	return nil
}

func reportDetections(ctx context.Context, s store.Store, w io.Writer, verbose bool) error {
	dets, err := s.Detections(ctx)
	if err != nil {
		return fmt.Errorf("reading detections: %w", err)
	}

	fmt.Fprintf(w, "\nDetections: %s\n", humanize.Comma(int64(len(dets))))

	byCategory := make(map[string]int)
	for _, d := range dets {
		byCategory[d.Category]++
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Fprintf(w, "  %-20s %d\n", c, byCategory[c])
	}

	if !verbose {
		return nil
	}

	for _, d := range dets {
		picture := "-"
		if d.Picture != nil {
			picture = *d.Picture
		}
		fmt.Fprintf(w, "  #%d  %s  %s  (%.4f, %.4f)  bhp=%v worker=%v change=%v  %s\n",
			d.ID, d.Timestamp, d.Category, d.Latitude, d.Longitude, d.BHP, d.Worker, d.Change, picture)
	}
	return nil
}

func sampleCount(t record.Telemetry) int64 {
	var n int64
	for _, samples := range t {
		n += int64(len(samples))
	}
	return n
}
