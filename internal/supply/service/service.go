package service

import (
	"github.com/dest81/aid-coordinator/internal/supply/repository"
)

// Services supply/demand service set
type Services struct {
	Offer     *OfferService
	Request   *RequestService
	ChangeLog *ChangeLogService
}

func NewServices(repos *repository.Repositories) *Services {
	changeLog := NewChangeLogService(repos.Change)
	return &Services{
		Offer:     NewOfferService(repos.Offer, changeLog),
		Request:   NewRequestService(repos.Request, changeLog),
		ChangeLog: changeLog,
	}
}
