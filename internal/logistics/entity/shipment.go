package entity

import "time"

type Shipment struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	ShipmentDate   *time.Time `json:"shipment_date"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	FromLocationID string     `gorm:"size:36;not null;index" json:"from_location_id"`
	FromLocation   *Location  `gorm:"foreignKey:FromLocationID" json:"from_location,omitempty"`
	ToLocationID   string     `gorm:"size:36;not null;index" json:"to_location_id"`
	ToLocation     *Location  `gorm:"foreignKey:ToLocationID" json:"to_location,omitempty"`
	IsDelivered    bool       `gorm:"default:false" json:"is_delivered"`
	Notes          string     `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Shipment) TableName() string {
	return "shipments"
}
