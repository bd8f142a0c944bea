package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fieldops/drone-records/internal/record"
)

// SqliteStore handles database operations against a single SQLite file
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new store backed by the SQLite database at dbPath.
// The file is created and the schema initialized on first use.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// Bootstrap through the write handle first so the database file
		// and schema exist before a read-only connection touches them.
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) AddFlightLog(ctx context.Context, timestamp string, data record.Telemetry) (id int64, err error) {
	data, err = data.Normalize()
	if err != nil {
		err = fmt.Errorf("normalizing telemetry: %w", err)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		err = fmt.Errorf("marshaling telemetry: %w", err)
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertFlightLogSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, timestamp, string(payload))
	if err != nil {
		err = fmt.Errorf("inserting flight log: %w", err)
		return
	}

	id, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting flight log ID: %w", err)
	}
	return
}

func (s *SqliteStore) FlightLog(ctx context.Context, id int64) (log *record.FlightLog, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectFlightLogSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var row flightLogRow
	if err = stmt.QueryRowContext(ctx, id).Scan(&row.ID, &row.Timestamp, &row.TelemetryData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return
		}
		err = fmt.Errorf("scanning flight log: %w", err)
		return
	}

	return toFlightLog(&row)
}

func (s *SqliteStore) FlightLogs(ctx context.Context) (logs []*record.FlightLog, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectFlightLogsSQL)
	if err != nil {
		err = fmt.Errorf("querying flight logs: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row flightLogRow
		if err = rows.Scan(&row.ID, &row.Timestamp, &row.TelemetryData); err != nil {
			err = fmt.Errorf("scanning flight log: %w", err)
			return
		}

		var log *record.FlightLog
		if log, err = toFlightLog(&row); err != nil {
			return
		}
		logs = append(logs, log)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) DeleteFlightLog(ctx context.Context, id int64) (deleted bool, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, deleteFlightLogSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		err = fmt.Errorf("deleting flight log: %w", err)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		err = fmt.Errorf("getting affected rows: %w", err)
		return
	}
	return affected > 0, nil
}

func (s *SqliteStore) AddDetection(ctx context.Context, d record.Detection) (id int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertDetectionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(
		ctx,
		d.Timestamp,
		d.Category,
		d.Latitude,
		d.Longitude,
		toNullString(d.Picture),
		boolToInt(d.BHP),
		boolToInt(d.Worker),
		boolToInt(d.Change),
	)
	if err != nil {
		err = fmt.Errorf("inserting detection: %w", err)
		return
	}

	id, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting detection ID: %w", err)
	}
	return
}

func (s *SqliteStore) Detection(ctx context.Context, id int64) (det *record.Detection, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectDetectionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var row detectionRow
	err = stmt.QueryRowContext(ctx, id).Scan(
		&row.ID,
		&row.Timestamp,
		&row.Category,
		&row.Latitude,
		&row.Longitude,
		&row.Picture,
		&row.BHP,
		&row.Worker,
		&row.Change,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return
		}
		err = fmt.Errorf("scanning detection: %w", err)
		return
	}

	return toDetection(&row), nil
}

func (s *SqliteStore) Detections(ctx context.Context) (dets []*record.Detection, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectDetectionsSQL)
	if err != nil {
		err = fmt.Errorf("querying detections: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row detectionRow
		err = rows.Scan(
			&row.ID,
			&row.Timestamp,
			&row.Category,
			&row.Latitude,
			&row.Longitude,
			&row.Picture,
			&row.BHP,
			&row.Worker,
			&row.Change,
		)
		if err != nil {
			err = fmt.Errorf("scanning detection: %w", err)
			return
		}
		dets = append(dets, toDetection(&row))
	}
	err = rows.Err()
	return
}

// UpdateDetection rewrites the stored detection with the merge of its current
// values and the fields provided in upd. The read and the write share one
// transaction, so a concurrent writer cannot slip between them.
func (s *SqliteStore) UpdateDetection(ctx context.Context, id int64, upd record.DetectionUpdate) (updated bool, err error) {
	if upd.IsZero() {
		// Nothing to merge; report existence without opening a transaction.
		det, dErr := s.Detection(ctx, id)
		if dErr != nil {
			err = dErr
			return
		}
		return det != nil, nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	var row detectionRow
	err = tx.QueryRowContext(ctx, selectDetectionSQL, id).Scan(
		&row.ID,
		&row.Timestamp,
		&row.Category,
		&row.Latitude,
		&row.Longitude,
		&row.Picture,
		&row.BHP,
		&row.Worker,
		&row.Change,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return
		}
		err = fmt.Errorf("scanning detection: %w", err)
		return
	}

	det := toDetection(&row)
	upd.Apply(det)

	_, err = tx.ExecContext(
		ctx,
		updateDetectionSQL,
		det.Timestamp,
		det.Category,
		det.Latitude,
		det.Longitude,
		toNullString(det.Picture),
		boolToInt(det.BHP),
		boolToInt(det.Worker),
		boolToInt(det.Change),
		id,
	)
	if err != nil {
		err = fmt.Errorf("updating detection: %w", err)
		return
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("committing transaction: %w", err)
		return
	}
	return true, nil
}

func (s *SqliteStore) DeleteDetection(ctx context.Context, id int64) (deleted bool, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, deleteDetectionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		err = fmt.Errorf("deleting detection: %w", err)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		err = fmt.Errorf("getting affected rows: %w", err)
		return
	}
	return affected > 0, nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
