package usql

import (
	"context"
	"database/sql"

	"github.com/ordishs/gocore"
)

var (
	stat = gocore.NewStat("SQL")
)

// DB wraps sql.DB and records the duration of every statement in the gocore SQL stat, keyed by query text.
type DB struct {
	*sql.DB
	engine string
}

func Open(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	return &DB{DB: db, engine: driverName}, nil
}

// Wrap instruments an already opened *sql.DB, for example one created by sqlmock.
func Wrap(db *sql.DB, engine string) *DB {
	return &DB{DB: db, engine: engine}
}

// Engine returns the driver name the database was opened with.
func (db *DB) Engine() string {
	return db.engine
}

func track(query string) func() {
	start := gocore.CurrentTime()

	return func() {
		stat.NewStat(query).AddTime(start)
	}
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer track(query)()

	return db.DB.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer track(query)()

	return db.DB.QueryRowContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer track(query)()

	return db.DB.ExecContext(ctx, query, args...)
}
