// Package datamodel opens the gorm handle and owns the persisted row types.
package datamodel

import (
	"fmt"
	"time"

	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models is every row type, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&taskDatamodel.Task{},
		&taskDatamodel.Comment{},
	}
}

// AutoMigrate creates or updates the schema from the row types. Postgres
// deployments use the goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GormConfig is shared by every gorm handle the service opens.
func GormConfig(silent bool) *gorm.Config {
	level := gormlogger.Warn
	if silent {
		level = gormlogger.Silent
	}
	return &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(level),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// OpenSQLite opens a sqlite database at dsn. A single connection is kept so
// in-memory databases are not lost between pool connections.
func OpenSQLite(dsn string, silent bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig(silent))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres wraps an already-open *sql.DB pool (pgx stdlib).
func OpenPostgres(conn gorm.ConnPool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), GormConfig(false))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}
