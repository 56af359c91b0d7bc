package entity

import "gorm.io/gorm"

// AutoMigrate migrates all contact tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organisation{},
		&Contact{},
	)
}
