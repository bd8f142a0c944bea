package store

import (
	"database/sql"
)

type flightLogRow struct {
	ID            int64
	Timestamp     string
	TelemetryData string
}

type detectionRow struct {
	ID        int64
	Timestamp string
	Category  string
	Latitude  float64
	Longitude float64
	Picture   sql.NullString
	BHP       int64
	Worker    int64
	Change    int64
}
