// Package datamodeltest provides throwaway databases for package tests.
package datamodeltest

import (
	"fmt"

	"github.com/frahmantamala/task-management/internal/core/datamodel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewSQLite returns a migrated, private in-memory database.
func NewSQLite() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := datamodel.OpenSQLite(dsn, true)
	if err != nil {
		return nil, err
	}
	if err := datamodel.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
