package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationService struct {
	locationRepo *repository.LocationRepository
}

func NewLocationService(locationRepo *repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) Get(ctx context.Context, id string) (*entity.Location, error) {
	return s.locationRepo.FindByID(ctx, id)
}

func (s *LocationService) List(ctx context.Context, params repository.LocationListParams) ([]entity.Location, int64, error) {
	return s.locationRepo.List(ctx, params)
}

type SaveLocationInput struct {
	Name        string `json:"name" binding:"required"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Type        string `json:"type"`
	ManagedByID string `json:"managed_by_id"`
}

func (s *LocationService) Create(ctx context.Context, input *SaveLocationInput) (*entity.Location, error) {
	locationType := input.Type
	if locationType == "" {
		locationType = entity.LocationTypeWarehouse
	}
	if !entity.ValidLocationType(locationType) {
		return nil, fmt.Errorf("invalid location type: %s", input.Type)
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      input.Name,
		City:      input.City,
		Country:   input.Country,
		Email:     input.Email,
		Phone:     input.Phone,
		Type:      locationType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ManagedByID != "" {
		location.ManagedByID = &input.ManagedByID
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, location *entity.Location, input *SaveLocationInput) (*entity.Location, error) {
	if input.Type != "" {
		if !entity.ValidLocationType(input.Type) {
			return nil, fmt.Errorf("invalid location type: %s", input.Type)
		}
		location.Type = input.Type
	}
	location.Name = input.Name
	location.City = input.City
	location.Country = input.Country
	location.Email = input.Email
	location.Phone = input.Phone
	if input.ManagedByID != "" {
		location.ManagedByID = &input.ManagedByID
	} else {
		location.ManagedByID = nil
	}
	location.UpdatedAt = time.Now()
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return location, nil
}

// SeedDefaults ensures the Donor and Requester placeholder locations exist.
// Received donations land at Donor until a shipment moves them.
func (s *LocationService) SeedDefaults(ctx context.Context) error {
	defaults := []struct {
		name, typ string
	}{
		{entity.DefaultDonorLocation, entity.LocationTypeDonor},
		{entity.DefaultRequesterLocation, entity.LocationTypeRequester},
	}
	for _, d := range defaults {
		_, err := s.locationRepo.FindByName(ctx, d.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed location %s: %w", d.name, err)
		}
		now := time.Now()
		location := &entity.Location{
			ID:        uuid.New().String(),
			Name:      d.name,
			Type:      d.typ,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.locationRepo.Create(ctx, location); err != nil {
			return fmt.Errorf("seed location %s: %w", d.name, err)
		}
	}
	return nil
}
