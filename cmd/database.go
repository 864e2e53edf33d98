package cmd

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/datamodel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Store is the opened database: the gorm handle the repositories use and the
// raw pool for health checks and shutdown.
type Store struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

func (s *Store) Close() error {
	return s.SQL.Close()
}

func initDB(cfg internal.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case internal.DriverPostgres:
		return initPostgres(cfg)
	case internal.DriverSQLite:
		return initSQLite(cfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func initPostgres(cfg internal.DatabaseConfig) (*Store, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gdb, err := datamodel.OpenPostgres(dbConn.DB)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	return &Store{Gorm: gdb, SQL: dbConn.DB}, nil
}

// initSQLite opens the file database and brings its schema up to date.
func initSQLite(cfg internal.DatabaseConfig) (*Store, error) {
	gdb, err := datamodel.OpenSQLite(cfg.Source, false)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite pool: %w", err)
	}
	if err := datamodel.AutoMigrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{Gorm: gdb, SQL: sqlDB}, nil
}
