package entity

import "gorm.io/gorm"

// AutoMigrate migrates all logistics tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Location{},
		&EquipmentData{},
		&Shipment{},
		&ShipmentItem{},
		&Claim{},
	)
}
