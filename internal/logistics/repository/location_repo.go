package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*entity.Location, error) {
	var location entity.Location
	err := r.db.WithContext(ctx).Preload("ManagedBy").
		Where("id = ?", id).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) FindByName(ctx context.Context, name string) (*entity.Location, error) {
	var location entity.Location
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) Create(ctx context.Context, location *entity.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *LocationRepository) Update(ctx context.Context, location *entity.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

type LocationListParams struct {
	Country string
	Type    string
	Keyword string
	Page    int
	Size    int
}

func (r *LocationRepository) List(ctx context.Context, params LocationListParams) ([]entity.Location, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Location{})
	if params.Country != "" {
		query = query.Where("country = ?", params.Country)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ? OR country ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var locations []entity.Location
	err := query.Preload("ManagedBy").Order("name").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&locations).Error
	return locations, total, err
}
