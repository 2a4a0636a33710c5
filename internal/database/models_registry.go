package database

import "descubre/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Place{},
		&models.Review{},
		&models.Report{},
		&models.PointLog{},
		&models.ModerationRecord{},
		&models.Appeal{},
	}
}
