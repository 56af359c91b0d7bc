package entity

import "time"

// EquipmentData physical dimensions of a brand+model, used for shipment
// volume planning. brand+model is the natural key for imports.
type EquipmentData struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Brand     string    `gorm:"size:200;not null;uniqueIndex:idx_equipment_brand_model" json:"brand"`
	Model     string    `gorm:"size:200;not null;uniqueIndex:idx_equipment_brand_model" json:"model"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Depth     float64   `json:"depth"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EquipmentData) TableName() string {
	return "equipment_data"
}
