package handler

import (
	"github.com/dest81/aid-coordinator/internal/supply/service"
)

// Handlers supply/demand HTTP handler set
type Handlers struct {
	Offer   *OfferHandler
	Request *RequestHandler
	Change  *ChangeHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Offer:   NewOfferHandler(services.Offer),
		Request: NewRequestHandler(services.Request),
		Change:  NewChangeHandler(services.ChangeLog),
	}
}
