package database

import (
	"gorm.io/gorm"

	"github.com/yogesh616/MediSearchServer/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Question{},
		&models.ReviewQuestion{},
		&models.CacheEntry{},
	)
}

// EnsureSearchIndexes creates the exact-match and full-text indexes on medicals.input that
// gorm tags cannot express portably.
func EnsureSearchIndexes(db *gorm.DB) error {
	switch Dialect(db) {
	case "postgres":
		// HASH avoids the btree row size limit for long question texts.
		if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_medicals_input ON medicals USING HASH (input)").Error; err != nil {
			return err
		}
		return db.Exec("CREATE INDEX IF NOT EXISTS idx_medicals_input_fts ON medicals USING GIN (to_tsvector('english', input))").Error
	case "mysql":
		migrator := db.Migrator()
		if !migrator.HasIndex(&models.Question{}, "idx_medicals_input") {
			if err := db.Exec("CREATE INDEX idx_medicals_input ON medicals (input(255))").Error; err != nil {
				return err
			}
		}
		if !migrator.HasIndex(&models.Question{}, "ft_medicals_input") {
			return db.Exec("CREATE FULLTEXT INDEX ft_medicals_input ON medicals (input)").Error
		}
		return nil
	default:
		return db.Exec("CREATE INDEX IF NOT EXISTS idx_medicals_input ON medicals (input)").Error
	}
}
