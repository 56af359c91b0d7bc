package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/contacts/entity"
	"gorm.io/gorm"
)

type OrganisationRepository struct {
	db *gorm.DB
}

func NewOrganisationRepository(db *gorm.DB) *OrganisationRepository {
	return &OrganisationRepository{db: db}
}

func (r *OrganisationRepository) FindByID(ctx context.Context, id string) (*entity.Organisation, error) {
	var org entity.Organisation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganisationRepository) Create(ctx context.Context, org *entity.Organisation) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganisationRepository) List(ctx context.Context, keyword string) ([]entity.Organisation, error) {
	query := r.db.WithContext(ctx).Model(&entity.Organisation{})
	if keyword != "" {
		query = query.Where("name ILIKE ?", "%"+keyword+"%")
	}
	var orgs []entity.Organisation
	err := query.Order("name").Find(&orgs).Error
	return orgs, err
}
