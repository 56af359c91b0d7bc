package entity

import (
	"time"

	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
)

// ShipmentItem one movement of a quantity of an offered item. Rows are
// append-only: assigning part of a row to a shipment creates a child row
// pointing back via ParentShipmentItemID, it never mutates the original.
type ShipmentItem struct {
	ID                   string                   `gorm:"primaryKey;size:36" json:"id"`
	OfferedItemID        string                   `gorm:"size:36;not null;index" json:"offered_item_id"`
	OfferedItem          *supplyentity.OfferItem  `gorm:"foreignKey:OfferedItemID" json:"offered_item,omitempty"`
	Amount               int                      `gorm:"not null" json:"amount"`
	LastLocationID       string                   `gorm:"size:36;not null;index" json:"last_location_id"`
	LastLocation         *Location                `gorm:"foreignKey:LastLocationID" json:"last_location,omitempty"`
	ShipmentID           *string                  `gorm:"size:36;index" json:"shipment_id"`
	Shipment             *Shipment                `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
	ParentShipmentItemID *string                  `gorm:"size:36;index" json:"parent_shipment_item_id"`
	When                 *time.Time               `json:"when"`
	CreatedAt            time.Time                `json:"created_at"`

	// Available is recomputed from the child rows on every query.
	Available *int `gorm:"->;-:migration" json:"available,omitempty"`
}

func (ShipmentItem) TableName() string {
	return "shipment_items"
}

// IsDelivered a row counts as delivered when it has no shipment yet or its
// shipment has arrived.
func (s *ShipmentItem) IsDelivered() bool {
	return s.Shipment == nil || s.Shipment.IsDelivered
}
