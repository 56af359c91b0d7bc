package handler

import "github.com/dest81/aid-coordinator/internal/contacts/service"

// Handlers contact HTTP handler set
type Handlers struct {
	Auth    *AuthHandler
	Contact *ContactHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(services.Auth),
		Contact: NewContactHandler(services.Contact),
	}
}
