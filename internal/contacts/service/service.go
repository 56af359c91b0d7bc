package service

import (
	"github.com/dest81/aid-coordinator/internal/config"
	"github.com/dest81/aid-coordinator/internal/contacts/repository"
	"github.com/redis/go-redis/v9"
)

// Services contact service set
type Services struct {
	Auth    *AuthService
	Contact *ContactService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.Contact, rdb, cfg),
		Contact: NewContactService(repos.Contact, repos.Organisation),
	}
}
