package database

import (
	stderrors "errors"
	"fmt"
	"time"

	"anoa.com/squadhub/pkg/apperror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the connection settings for the Postgres store.
type Config struct {
	URL             string
	Host            string
	User            string
	Password        string
	Name            string
	Port            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

// Connect opens the pool and verifies the database can be reached.
func Connect(cfg Config) (*gorm.DB, error) {
	wrapMsg := "unable to initialize the database"

	db, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig())
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// GormConfig is shared by Connect and the repository tests. Writes that need atomicity open
// their own transaction, so the implicit per-statement one is skipped.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Close releases the underlying pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("unable to get the database handle")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("unable to close the database connection")
	}
}

// Classify turns a store error into an application error. Record-not-found becomes notFound
// when one is given; everything else is a backend failure carrying wrapMsg.
func Classify(err error, wrapMsg string, notFound *apperror.AppError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && stderrors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var appErr *apperror.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return apperror.Backend(errors.Wrap(err, wrapMsg))
}
