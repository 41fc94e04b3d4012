package database

import (
	"gorm.io/gorm"
)

type Database struct {
	recordStore *RecordStore
}

// New initializes the Database aggregate over a shared GORM instance, running
// any pending schema migrations first.
func New(db *gorm.DB) (Database, error) {
	if err := Migrate(db); err != nil {
		return Database{}, err
	}
	return Database{
		recordStore: NewRecordStore(db),
	}, nil
}

// RecordStore returns the durable ledger store.
func (d Database) RecordStore() *RecordStore {
	return d.recordStore
}
