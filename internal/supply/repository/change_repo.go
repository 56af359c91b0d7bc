package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"gorm.io/gorm"
)

type ChangeRepository struct {
	db *gorm.DB
}

func NewChangeRepository(db *gorm.DB) *ChangeRepository {
	return &ChangeRepository{db: db}
}

func (r *ChangeRepository) Create(ctx context.Context, change *entity.Change) error {
	return r.db.WithContext(ctx).Create(change).Error
}

type ChangeListParams struct {
	Action string
	Type   string
	WhoID  string
	Page   int
	Size   int
}

func (r *ChangeRepository) List(ctx context.Context, params ChangeListParams) ([]entity.Change, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Change{})
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.WhoID != "" {
		query = query.Where("who_id = ?", params.WhoID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var changes []entity.Change
	err := query.Preload("Who").Order(`"when" DESC`).
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&changes).Error
	return changes, total, err
}
