package entity

import (
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
)

// Claim earmarks a quantity of an offered item for a requested item,
// optionally tied to the shipment that will carry it.
type Claim struct {
	ID              string                    `gorm:"primaryKey;size:36" json:"id"`
	RequestedItemID string                    `gorm:"size:36;not null;index" json:"requested_item_id"`
	RequestedItem   *supplyentity.RequestItem `gorm:"foreignKey:RequestedItemID" json:"requested_item,omitempty"`
	OfferedItemID   string                    `gorm:"size:36;not null;index" json:"offered_item_id"`
	OfferedItem     *supplyentity.OfferItem   `gorm:"foreignKey:OfferedItemID" json:"offered_item,omitempty"`
	Amount          int                       `gorm:"not null" json:"amount"`
	ShipmentID      *string                   `gorm:"size:36;index" json:"shipment_id"`
	Shipment        *Shipment                 `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
}

func (Claim) TableName() string {
	return "claims"
}
