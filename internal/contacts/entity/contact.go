package entity

import "time"

// Organisation a donor or requester organisation
type Organisation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:200;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Organisation) TableName() string {
	return "organisations"
}

// Contact a staff member, donor or requester account
type Contact struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	FirstName      string    `json:"first_name" gorm:"size:100"`
	LastName       string    `json:"last_name" gorm:"size:100"`
	Email          string    `json:"email" gorm:"size:200;not null;uniqueIndex"`
	Phone          string    `json:"phone" gorm:"size:50"`
	PasswordHash   string    `json:"-" gorm:"size:100;not null"`
	IsSuperuser    bool      `json:"is_superuser" gorm:"not null;default:false"`
	IsDonor        bool      `json:"is_donor" gorm:"not null;default:false"`
	IsRequester    bool      `json:"is_requester" gorm:"not null;default:false"`
	OrganisationID *string   `json:"organisation_id" gorm:"size:36;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organisation *Organisation `json:"organisation,omitempty" gorm:"foreignKey:OrganisationID"`
}

func (Contact) TableName() string {
	return "contacts"
}

// DisplayName full name for list views and change log entries
func (c *Contact) DisplayName() string {
	if c.FirstName == "" && c.LastName == "" {
		return c.Email
	}
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
