package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"investalytics/server/internal/models"
)

// NewORM opens a gorm handle on the same SQLite file the report queries
// use. The batch ingestion path goes through gorm; the read side stays on
// database/sql.
func NewORM(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}
	return db, nil
}

// NewTestDB opens an in-memory database for tests.
func NewTestDB() (*gorm.DB, error) {
	return NewORM("file::memory:?cache=shared")
}

// MigrateSchema creates the analytics tables through gorm. Equivalent to
// Database.RunMigrations for environments that only touch the ORM side.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.MarketSnapshot{},
		&models.EconomicIndicator{},
	)
}

// UpsertProperties writes a batch of listings inside the caller's
// transaction, replacing previously ingested versions of the same
// property_id.
func UpsertProperties(tx *gorm.DB, batch []*models.Property) error {
	if len(batch) == 0 {
		return nil
	}

	result := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"address", "city", "state", "zip_code", "price",
			"bedrooms", "bathrooms", "square_feet", "property_type",
			"estimated_rental_income", "property_taxes",
			"listing_date", "days_on_market",
		}),
	}).Create(batch)

	if result.Error != nil {
		return fmt.Errorf("failed to upsert %d properties: %w", len(batch), result.Error)
	}
	return nil
}
