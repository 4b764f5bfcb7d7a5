// Package database owns the persistent store handle shared by all
// repositories, and defines the failure taxonomy they return.
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chargelog/chargelog/internal/entities"
	"github.com/chargelog/chargelog/internal/livequery"
)

// SchemaVersion is the current persisted schema version. Structural changes
// must bump it and add an explicit migration step, never silently alter the
// version 1 index set.
const SchemaVersion = 1

// Database is the single long-lived store handle. All repositories read and
// write through DB and announce committed writes on Bus.
type Database struct {
	DB  *gorm.DB
	Bus *livequery.Bus
}

// NewDatabase opens the SQLite store at dbPath and migrates the version 1
// schema for the four collections.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Vehicle{},
		&entities.Location{},
		&entities.ChargingSession{},
		&entities.Settings{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.WithField("path", dbPath).Info("Database initialized")

	return &Database{DB: db, Bus: livequery.NewBus()}, nil
}

// Close releases the underlying SQLite connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
