package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/contacts/entity"
	"github.com/dest81/aid-coordinator/internal/contacts/repository"
	"github.com/google/uuid"
)

type ContactService struct {
	contactRepo *repository.ContactRepository
	orgRepo     *repository.OrganisationRepository
}

func NewContactService(contactRepo *repository.ContactRepository, orgRepo *repository.OrganisationRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo, orgRepo: orgRepo}
}

func (s *ContactService) List(ctx context.Context, params repository.ContactListParams) ([]entity.Contact, int64, error) {
	return s.contactRepo.List(ctx, params)
}

func (s *ContactService) Get(ctx context.Context, id string) (*entity.Contact, error) {
	return s.contactRepo.FindByID(ctx, id)
}

type CreateContactInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Password       string `json:"password" binding:"required,min=8"`
	IsSuperuser    bool   `json:"is_superuser"`
	IsDonor        bool   `json:"is_donor"`
	IsRequester    bool   `json:"is_requester"`
	OrganisationID string `json:"organisation_id"`
}

func (s *ContactService) Create(ctx context.Context, input *CreateContactInput) (*entity.Contact, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	contact := &entity.Contact{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		IsSuperuser:  input.IsSuperuser,
		IsDonor:      input.IsDonor,
		IsRequester:  input.IsRequester,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if input.OrganisationID != "" {
		if _, err := s.orgRepo.FindByID(ctx, input.OrganisationID); err != nil {
			return nil, fmt.Errorf("organisation not found: %w", err)
		}
		contact.OrganisationID = &input.OrganisationID
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) ListOrganisations(ctx context.Context, keyword string) ([]entity.Organisation, error) {
	return s.orgRepo.List(ctx, keyword)
}

type CreateOrganisationInput struct {
	Name string `json:"name" binding:"required"`
}

func (s *ContactService) CreateOrganisation(ctx context.Context, input *CreateOrganisationInput) (*entity.Organisation, error) {
	org := &entity.Organisation{
		ID:        uuid.New().String(),
		Name:      input.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organisation: %w", err)
	}
	return org, nil
}
