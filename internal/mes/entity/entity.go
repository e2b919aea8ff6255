package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates the MES tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ProductionOrder{},
		&WorkStation{},
		&QualityCheck{},
	)
}
