package database

import (
	"database/sql"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenWithConn wraps an existing *sql.DB (for example a sqlmock connection) in gorm.
func OpenWithConn(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), GormConfig())
	if err != nil {
		return nil, errors.Wrap(err, "unable to wrap the database connection")
	}
	return db, nil
}
