package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldops/drone-records/internal/store"
)

const testManifest = `
flightLogs:
  - timestamp: "2024-01-01T00:00:00"
    telemetry:
      Roll: [1.0, 1.5, 2.0]
      Satellites: [8, 9, 10]
      Armed: [true, true, true]
      Flight_Mode: ["AUTO", "AUTO", "LOITER"]
detections:
  - timestamp: "2024-01-01T10:30:00"
    category: Worker
    latitude: 52.2297
    longitude: 21.0122
    picture: /data/images/worker_0001.jpg
    bhp: true
    worker: true
  - timestamp: "2024-01-01T10:31:00"
    category: Hazard
    latitude: 52.2298
    longitude: 21.0123
    change: true
`

const testConfig = `
settings:
  logLevel: debug
storage:
  databaseFile: %s
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.yaml", testManifest)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}

	if len(m.FlightLogs) != 1 {
		t.Fatalf("Expected 1 flight log, got %d", len(m.FlightLogs))
	}
	if len(m.Detections) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(m.Detections))
	}

	fl := m.FlightLogs[0]
	if fl.Timestamp != "2024-01-01T00:00:00" {
		t.Errorf("Unexpected timestamp: %s", fl.Timestamp)
	}
	if len(fl.Telemetry["Roll"]) != 3 {
		t.Errorf("Expected 3 Roll samples, got %d", len(fl.Telemetry["Roll"]))
	}

	worker := m.Detections[0]
	if worker.Picture == nil || *worker.Picture != "/data/images/worker_0001.jpg" {
		t.Errorf("Unexpected picture: %v", worker.Picture)
	}
	if !worker.BHP || !worker.Worker || worker.Change {
		t.Errorf("Unexpected flags: %+v", worker)
	}

	hazard := m.Detections[1]
	if hazard.Picture != nil {
		t.Errorf("Expected no picture, got %q", *hazard.Picture)
	}
	if !hazard.Change {
		t.Error("Expected change true")
	}
}

func TestLoadManifestRejectsMissingCategory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.yaml", `
detections:
  - timestamp: "2024-01-01T10:30:00"
    latitude: 1.0
    longitude: 2.0
`)

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("Expected error for detection without category")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "records.sqlite")
	path := writeFile(t, dir, "config.yaml", "settings:\n  logLevel: warn\nstorage:\n  databaseFile: "+dbPath+"\n")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Storage.DatabaseFile != dbPath {
		t.Errorf("Unexpected database file: %s", config.Storage.DatabaseFile)
	}
	if config.Settings.Level() != slog.LevelWarn {
		t.Errorf("Unexpected level: %v", config.Settings.Level())
	}
}

func TestLoadConfigRequiresDatabaseFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "settings:\n  logLevel: info\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected error for missing storage.databaseFile")
	}
}

func TestRunIngestsManifests(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "records.sqlite")
	manifestPath := writeFile(t, dir, "records.yaml", testManifest)

	config := &Config{Storage: StorageConfig{DatabaseFile: dbPath}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := Run(context.Background(), config, []string{manifestPath}, logger)
	require.NoError(t, err)

	s := store.NewSqliteStore(dbPath)
	defer s.Close()

	logs, err := s.FlightLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)

	// YAML decodes whole numbers as int; they come back in the store's
	// canonical float64 form with their values intact.
	require.Equal(t, []any{8.0, 9.0, 10.0}, logs[0].Telemetry["Satellites"])
	require.Equal(t, []any{true, true, true}, logs[0].Telemetry["Armed"])

	dets, err := s.Detections(context.Background())
	require.NoError(t, err)
	require.Len(t, dets, 2)
	require.Equal(t, "Worker", dets[0].Category)
	require.Equal(t, "Hazard", dets[1].Category)
}
