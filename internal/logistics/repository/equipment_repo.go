package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) FindByBrandModel(ctx context.Context, brand, model string) (*entity.EquipmentData, error) {
	var eq entity.EquipmentData
	err := r.db.WithContext(ctx).Where("brand = ? AND model = ?", brand, model).First(&eq).Error
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// Upsert inserts or updates on the brand+model natural key.
func (r *EquipmentRepository) Upsert(ctx context.Context, eq *entity.EquipmentData) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brand"}, {Name: "model"}},
		DoUpdates: clause.AssignmentColumns([]string{"width", "height", "depth", "weight", "updated_at"}),
	}).Create(eq).Error
}

type EquipmentListParams struct {
	Keyword string
	Page    int
	Size    int
}

func (r *EquipmentRepository) List(ctx context.Context, params EquipmentListParams) ([]entity.EquipmentData, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.EquipmentData{})
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("brand ILIKE ? OR model ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var rows []entity.EquipmentData
	err := query.Order("brand, model").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&rows).Error
	return rows, total, err
}

// ListAll loads the whole catalog in export order.
func (r *EquipmentRepository) ListAll(ctx context.Context) ([]entity.EquipmentData, error) {
	var rows []entity.EquipmentData
	err := r.db.WithContext(ctx).Order("brand, model").Find(&rows).Error
	return rows, err
}
