package entity

import "gorm.io/gorm"

// AutoMigrate migrates all supply/demand tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Offer{},
		&OfferItem{},
		&Request{},
		&RequestItem{},
		&Change{},
	)
}
