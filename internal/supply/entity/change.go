package entity

import (
	"time"

	contacts "github.com/dest81/aid-coordinator/internal/contacts/entity"
)

// ChangeAction what happened to the aggregate
const (
	ChangeActionAdd    = "ADD"
	ChangeActionChange = "CHANGE"
	ChangeActionDelete = "DELETE"
)

// ChangeType which aggregate kind was touched
const (
	ChangeTypeOffer   = "OFFER"
	ChangeTypeRequest = "REQUEST"
)

// Change append-only audit record for offer and request edits. Rows are never
// updated or deleted.
type Change struct {
	ID     string    `json:"id" gorm:"primaryKey;size:36"`
	WhoID  string    `json:"who_id" gorm:"size:36;not null;index"`
	Action string    `json:"action" gorm:"size:10;not null"`
	Type   string    `json:"type" gorm:"size:10;not null"`
	What   string    `json:"what" gorm:"size:200;not null"`
	Before string    `json:"before" gorm:"type:text"`
	After  string    `json:"after" gorm:"type:text"`
	When   time.Time `json:"when" gorm:"not null;index"`

	Who *contacts.Contact `json:"who,omitempty" gorm:"foreignKey:WhoID"`
}

func (Change) TableName() string {
	return "changes"
}
