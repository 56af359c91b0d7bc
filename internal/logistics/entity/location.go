package entity

import (
	"time"

	contactsentity "github.com/dest81/aid-coordinator/internal/contacts/entity"
)

const (
	LocationTypeDonor     = "donor"
	LocationTypeRequester = "requester"
	LocationTypeWarehouse = "warehouse"
)

// Default location names seeded at startup. Received donations land at
// DefaultDonorLocation until a shipment moves them.
const (
	DefaultDonorLocation     = "Donor"
	DefaultRequesterLocation = "Requester"
)

func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeDonor, LocationTypeRequester, LocationTypeWarehouse:
		return true
	}
	return false
}

type Location struct {
	ID          string                  `gorm:"primaryKey;size:36" json:"id"`
	Name        string                  `gorm:"size:200;not null" json:"name"`
	City        string                  `gorm:"size:100" json:"city"`
	Country     string                  `gorm:"size:100" json:"country"`
	Email       string                  `gorm:"size:200" json:"email"`
	Phone       string                  `gorm:"size:50" json:"phone"`
	Type        string                  `gorm:"size:20;not null;default:'warehouse'" json:"type"`
	ManagedByID *string                 `gorm:"size:36;index" json:"managed_by_id"`
	ManagedBy   *contactsentity.Contact `gorm:"foreignKey:ManagedByID" json:"managed_by,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) String() string {
	if l.City != "" {
		return l.Name + ", " + l.City
	}
	return l.Name
}
