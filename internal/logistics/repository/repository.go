package repository

import "gorm.io/gorm"

// Repositories logistics repository set
type Repositories struct {
	Location     *LocationRepository
	Equipment    *EquipmentRepository
	Shipment     *ShipmentRepository
	ShipmentItem *ShipmentItemRepository
	Claim        *ClaimRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Location:     NewLocationRepository(db),
		Equipment:    NewEquipmentRepository(db),
		Shipment:     NewShipmentRepository(db),
		ShipmentItem: NewShipmentItemRepository(db),
		Claim:        NewClaimRepository(db),
	}
}
