package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fieldops/drone-records/internal/record"
	"github.com/fieldops/drone-records/internal/store"
)

func seedDatabase(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "records.sqlite")
	s := store.NewSqliteStore(dbPath)
	defer s.Close()

	ctx := context.Background()

	_, err := s.AddFlightLog(ctx, "2024-01-01T00:00:00", record.Telemetry{
		"Roll":  []any{1.0, 1.5},
		"Armed": []any{true, true},
	})
	if err != nil {
		t.Fatalf("AddFlightLog failed: %v", err)
	}

	for _, category := range []string{"Worker", "Worker", "Hazard"} {
		_, err = s.AddDetection(ctx, record.Detection{
			Timestamp: "2024-01-01T10:30:00",
			Category:  category,
			Latitude:  52.2297,
			Longitude: 21.0122,
		})
		if err != nil {
			t.Fatalf("AddDetection failed: %v", err)
		}
	}

	return dbPath
}

func TestRunSummary(t *testing.T) {
	dbPath := seedDatabase(t)

	var buf bytes.Buffer
	config := &Config{DBPath: dbPath, FlightLogs: true, Detections: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(context.Background(), config, &buf, logger); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Flight logs: 1", "Detections: 3", "Worker", "Hazard"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q:\n%s", want, out)
		}
	}
}

func TestRunVerboseListsRecords(t *testing.T) {
	dbPath := seedDatabase(t)

	var buf bytes.Buffer
	config := &Config{DBPath: dbPath, FlightLogs: true, Detections: true, Verbose: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(context.Background(), config, &buf, logger); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2 channels") {
		t.Errorf("Verbose report missing channel summary:\n%s", out)
	}
	if !strings.Contains(out, "(52.2297, 21.0122)") {
		t.Errorf("Verbose report missing detection coordinates:\n%s", out)
	}
}

func TestRunMissingDatabase(t *testing.T) {
	config := &Config{DBPath: filepath.Join(t.TempDir(), "absent.sqlite")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(context.Background(), config, io.Discard, logger); err == nil {
		t.Fatal("Expected error for missing database file")
	}
}
