package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// SQLSource reads records from a table with columns
// tracker_id, time, lat and lon.
type SQLSource struct {
	db    *sql.DB
	query string
}

// OpenSQL opens a database/sql handle; driver defaults to duckdb.
func OpenSQL(driver, dsn string) (*sql.DB, error) {
	if driver == "" {
		driver = "duckdb"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLSource reads from table, which must be a trusted identifier.
func NewSQLSource(db *sql.DB, table string) *SQLSource {
	return &SQLSource{
		db: db,
		query: "SELECT tracker_id, time, lat, lon FROM " + table +
			" WHERE time >= ? AND time < ? ORDER BY time",
	}
}

func (s *SQLSource) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	rows, err := s.db.QueryContext(ctx, s.query, start.UTC(), end.UTC())
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.EntityID, &r.Time, &r.Lat, &r.Lon); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		r.Time = r.Time.UTC()
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}
