package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fieldops/drone-records/internal/record"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	cErr := rb.Rollback()
	if cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func toFlightLog(r *flightLogRow) (*record.FlightLog, error) {
	var data record.Telemetry
	if err := json.Unmarshal([]byte(r.TelemetryData), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling telemetry: %w", err)
	}

	return &record.FlightLog{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Telemetry: data,
	}, nil
}

func toDetection(r *detectionRow) *record.Detection {
	d := record.Detection{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Category:  r.Category,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		BHP:       r.BHP != 0,
		Worker:    r.Worker != 0,
		Change:    r.Change != 0,
	}
	if r.Picture.Valid {
		d.Picture = &r.Picture.String
	}
	return &d
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
