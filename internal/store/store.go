package store

import (
	"context"

	"github.com/fieldops/drone-records/internal/record"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides an interface for managing drone operation record storage.
// It handles flight telemetry logs and visual detection events persisted in
// an embedded database file. Absence of a record is never an error: lookups
// return a nil record, deletes and updates return false. Errors indicate the
// backing store could not complete a statement.
type Store interface {
	// AddFlightLog stores a new flight log and returns its assigned ID.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - timestamp: Caller-supplied timestamp text, stored verbatim
	//   - data: Channel-to-samples telemetry mapping, serialized as JSON
	//
	// Returns:
	//   - id: Store-assigned identifier of the new record
	//   - error: If serialization or the insert fails
	AddFlightLog(ctx context.Context, timestamp string, data record.Telemetry) (id int64, err error)

	// FlightLog retrieves a flight log by its ID.
	//
	// Returns:
	//   - log: The stored record, nil when no row matches the ID
	//   - error: If retrieval fails; absence is not an error
	FlightLog(ctx context.Context, id int64) (log *record.FlightLog, err error)

	// FlightLogs returns all stored flight logs in store-native order.
	// The result is empty when no flight logs exist.
	FlightLogs(ctx context.Context) (logs []*record.FlightLog, err error)

	// DeleteFlightLog removes a flight log by its ID.
	//
	// Returns:
	//   - deleted: True iff a row was removed; false when the ID does not exist
	//   - error: If the delete statement fails
	DeleteFlightLog(ctx context.Context, id int64) (deleted bool, err error)

	// AddDetection stores a new detection event and returns its assigned ID.
	// The ID field of d is ignored.
	AddDetection(ctx context.Context, d record.Detection) (id int64, err error)

	// Detection retrieves a detection by its ID, nil when no row matches.
	Detection(ctx context.Context, id int64) (det *record.Detection, err error)

	// Detections returns all stored detections in store-native order.
	Detections(ctx context.Context) (dets []*record.Detection, err error)

	// UpdateDetection revises the stored detection identified by id with the
	// fields provided in upd; nil fields keep their stored values. The read
	// and write happen in one transaction.
	//
	// Returns:
	//   - updated: True iff the detection existed and was rewritten
	//   - error: If the transaction fails
	UpdateDetection(ctx context.Context, id int64, upd record.DetectionUpdate) (updated bool, err error)

	// DeleteDetection removes a detection by its ID, returning true iff a
	// row was removed.
	DeleteDetection(ctx context.Context, id int64) (deleted bool, err error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	Close() error
}
