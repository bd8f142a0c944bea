package store

import (
	_ "embed"
)

const (
	insertFlightLogSQL = `
INSERT INTO flight_logs (timestamp,
                         telemetry_data)
VALUES (?, ?)`

	selectFlightLogSQL = `
SELECT
    id,
    timestamp,
    telemetry_data
FROM flight_logs
WHERE
    id = ?`

	selectFlightLogsSQL = `
SELECT
    id,
    timestamp,
    telemetry_data
FROM flight_logs`

	deleteFlightLogSQL = `
DELETE FROM flight_logs
WHERE
    id = ?`

	insertDetectionSQL = `
INSERT INTO detections (timestamp,
                        category,
                        latitude,
                        longitude,
                        picture,
                        bhp,
                        worker,
                        change)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectDetectionSQL = `
SELECT
    id,
    timestamp,
    category,
    latitude,
    longitude,
    picture,
    bhp,
    worker,
    change
FROM detections
WHERE
    id = ?`

	selectDetectionsSQL = `
SELECT
    id,
    timestamp,
    category,
    latitude,
    longitude,
    picture,
    bhp,
    worker,
    change
FROM detections`

	updateDetectionSQL = `
UPDATE detections
SET timestamp = ?,
    category  = ?,
    latitude  = ?,
    longitude = ?,
    picture   = ?,
    bhp       = ?,
    worker    = ?,
    change    = ?
WHERE
    id = ?`

	deleteDetectionSQL = `
DELETE FROM detections
WHERE
    id = ?`
)

//go:embed schema.sql
var initSchemaSQL string
