package repository

import "gorm.io/gorm"

// Repositories supply/demand repository set
type Repositories struct {
	Offer   *OfferRepository
	Request *RequestRepository
	Change  *ChangeRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Offer:   NewOfferRepository(db),
		Request: NewRequestRepository(db),
		Change:  NewChangeRepository(db),
	}
}
