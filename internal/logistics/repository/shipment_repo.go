package repository

import (
	"context"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*entity.Shipment, error) {
	var shipment entity.Shipment
	err := r.db.WithContext(ctx).
		Preload("FromLocation").Preload("ToLocation").
		Where("id = ?", id).First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *ShipmentRepository) Create(ctx context.Context, shipment *entity.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *ShipmentRepository) Update(ctx context.Context, shipment *entity.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}

// FindByFromLocation lists shipments departing a location, used by the
// assignment preview to offer candidate shipments.
func (r *ShipmentRepository) FindByFromLocation(ctx context.Context, locationID string) ([]entity.Shipment, error) {
	var shipments []entity.Shipment
	err := r.db.WithContext(ctx).
		Preload("FromLocation").Preload("ToLocation").
		Where("from_location_id = ?", locationID).
		Order("delivery_date DESC NULLS LAST, created_at DESC").
		Find(&shipments).Error
	return shipments, err
}

type ShipmentListParams struct {
	IsDelivered    *bool
	FromLocationID string
	ToLocationID   string
	DateFrom       *time.Time
	DateTo         *time.Time
	Keyword        string
	Page           int
	Size           int
}

func (r *ShipmentRepository) List(ctx context.Context, params ShipmentListParams) ([]entity.Shipment, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Shipment{})
	if params.IsDelivered != nil {
		query = query.Where("is_delivered = ?", *params.IsDelivered)
	}
	if params.FromLocationID != "" {
		query = query.Where("from_location_id = ?", params.FromLocationID)
	}
	if params.ToLocationID != "" {
		query = query.Where("to_location_id = ?", params.ToLocationID)
	}
	if params.DateFrom != nil {
		query = query.Where("delivery_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("delivery_date <= ?", *params.DateTo)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where(`shipments.name ILIKE ?
			OR EXISTS (SELECT 1 FROM locations l WHERE l.id IN (shipments.from_location_id, shipments.to_location_id)
				AND (l.name ILIKE ? OR l.city ILIKE ? OR l.country ILIKE ?))`,
			kw, kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var shipments []entity.Shipment
	err := query.Preload("FromLocation").Preload("ToLocation").
		Order("delivery_date DESC NULLS LAST").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&shipments).Error
	return shipments, total, err
}

// DB returns the underlying handle for transactional service code.
func (r *ShipmentRepository) DB() *gorm.DB {
	return r.db
}
