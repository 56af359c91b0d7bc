package repository

import "gorm.io/gorm"

// Repositories contact repository set
type Repositories struct {
	Contact      *ContactRepository
	Organisation *OrganisationRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Contact:      NewContactRepository(db),
		Organisation: NewOrganisationRepository(db),
	}
}
