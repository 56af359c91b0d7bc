package entity

import (
	"fmt"
	"strings"
	"time"

	contacts "github.com/dest81/aid-coordinator/internal/contacts/entity"
)

// ItemType what kind of goods or help an item describes
const (
	ItemTypeHardware = "HARDWARE"
	ItemTypeSoftware = "SOFTWARE"
	ItemTypeService  = "SERVICE"
	ItemTypeOther    = "OTHER"
)

// ValidItemType reports whether t is a known item type.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeHardware, ItemTypeSoftware, ItemTypeService, ItemTypeOther:
		return true
	}
	return false
}

// Offer a donor's submission of one or more offered items
type Offer struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Description    string    `json:"description" gorm:"size:200;not null"`
	ContactID      string    `json:"contact_id" gorm:"size:36;not null;index"`
	LocationID     *string   `json:"location_id" gorm:"size:36"`
	DeliveryMethod string    `json:"delivery_method" gorm:"size:100"`
	InternalNotes  string    `json:"internal_notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Contact *contacts.Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
	Items   []OfferItem       `json:"items,omitempty" gorm:"foreignKey:OfferID"`
}

func (Offer) TableName() string {
	return "offers"
}

func (o *Offer) String() string {
	return o.Description
}

// ChangeLogEntry renders the offer and its items as the audit snapshot text.
func (o *Offer) ChangeLogEntry() string {
	var b strings.Builder
	b.WriteString(o.Description)
	b.WriteString("\n")
	for _, item := range o.Items {
		b.WriteString("- ")
		b.WriteString(item.String())
		b.WriteString("\n")
	}
	return b.String()
}

// OfferItem a single line of an offer
type OfferItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	OfferID   string    `json:"offer_id" gorm:"size:36;not null;index"`
	Type      string    `json:"type" gorm:"size:10;not null;default:HARDWARE"`
	Brand     string    `json:"brand" gorm:"size:100"`
	Model     string    `json:"model" gorm:"size:100"`
	Amount    int       `json:"amount" gorm:"not null;default:1"`
	Notes     string    `json:"notes" gorm:"type:text"`
	Received  bool      `json:"received" gorm:"not null;default:false"`
	Rejected  bool      `json:"rejected" gorm:"not null;default:false"`
	ClaimedBy *string   `json:"claimed_by" gorm:"column:claimed_by;size:36;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Offer *Offer `json:"offer,omitempty" gorm:"foreignKey:OfferID"`

	// Annotations filled by list queries, not stored.
	TotalClaimed *int `json:"total_claimed,omitempty" gorm:"->;-:migration"`
	Available    *int `json:"available,omitempty" gorm:"->;-:migration"`
}

func (OfferItem) TableName() string {
	return "offer_items"
}

func (i *OfferItem) String() string {
	name := strings.TrimSpace(i.Brand + " " + i.Model)
	if name == "" {
		name = strings.ToLower(i.Type)
	}
	return fmt.Sprintf("%dx %s", i.Amount, name)
}
