package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate applies the table migrations in order. Record payloads version
// themselves (schema_version column); these migrations only shape the tables
// around them.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250110_create_records",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&recordRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("records")
			},
		},
		{
			ID: "20250110_create_balances",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&balanceRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("balances")
			},
		},
	})
	return m.Migrate()
}
