package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/contacts/entity"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).Preload("Organisation").
		Where("id = ?", id).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.db.WithContext(ctx).Preload("Organisation").
		Where("email = ?", email).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) Update(ctx context.Context, contact *entity.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

type ContactListParams struct {
	OrganisationID string
	Keyword        string
	Page           int
	Size           int
}

func (r *ContactRepository) List(ctx context.Context, params ContactListParams) ([]entity.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Contact{})
	if params.OrganisationID != "" {
		query = query.Where("organisation_id = ?", params.OrganisationID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var contacts []entity.Contact
	err := query.Preload("Organisation").Order("last_name, first_name").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&contacts).Error
	return contacts, total, err
}
