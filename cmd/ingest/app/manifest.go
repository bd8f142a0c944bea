package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldops/drone-records/internal/record"
)

// Manifest is a batch of records produced by offline telemetry and detection
// tooling, ready to be written to the record store.
type Manifest struct {
	FlightLogs []ManifestFlightLog `yaml:"flightLogs"`
	Detections []ManifestDetection `yaml:"detections"`
}

// ManifestFlightLog is a single flight log entry in a manifest file.
type ManifestFlightLog struct {
	Timestamp string           `yaml:"timestamp"`
	Telemetry record.Telemetry `yaml:"telemetry"`
}

// ManifestDetection is a single detection entry in a manifest file.
// Picture is optional; flags default to false when omitted.
type ManifestDetection struct {
	Timestamp string  `yaml:"timestamp"`
	Category  string  `yaml:"category"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Picture   *string `yaml:"picture"`
	BHP       bool    `yaml:"bhp"`
	Worker    bool    `yaml:"worker"`
	Change    bool    `yaml:"change"`
}

// Record converts the manifest entry to its domain form.
func (m ManifestDetection) Record() record.Detection {
	return record.Detection{
		Timestamp: m.Timestamp,
		Category:  m.Category,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Picture:   m.Picture,
		BHP:       m.BHP,
		Worker:    m.Worker,
		Change:    m.Change,
	}
}

// LoadManifest reads and parses a YAML records manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err = yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	for i, fl := range m.FlightLogs {
		if fl.Timestamp == "" {
			return nil, fmt.Errorf("flight log %d: timestamp is required", i)
		}
	}
	for i, d := range m.Detections {
		if d.Timestamp == "" {
			return nil, fmt.Errorf("detection %d: timestamp is required", i)
		}
		if d.Category == "" {
			return nil, fmt.Errorf("detection %d: category is required", i)
		}
	}

	return &m, nil
}
