package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*entity.Claim, error) {
	var claim entity.Claim
	err := r.db.WithContext(ctx).
		Preload("OfferedItem").Preload("RequestedItem").Preload("Shipment").
		Where("id = ?", id).First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *ClaimRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Claim{}).Error
}

type ClaimListParams struct {
	OfferedItemID   string
	RequestedItemID string
	ShipmentID      string
	Page            int
	Size            int
}

func (r *ClaimRepository) List(ctx context.Context, params ClaimListParams) ([]entity.Claim, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Claim{})
	if params.OfferedItemID != "" {
		query = query.Where("offered_item_id = ?", params.OfferedItemID)
	}
	if params.RequestedItemID != "" {
		query = query.Where("requested_item_id = ?", params.RequestedItemID)
	}
	if params.ShipmentID != "" {
		query = query.Where("shipment_id = ?", params.ShipmentID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var claims []entity.Claim
	err := query.
		Preload("OfferedItem.Offer.Contact.Organisation").
		Preload("RequestedItem.Request.Contact.Organisation").
		Preload("Shipment").
		Order("id").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&claims).Error
	return claims, total, err
}

// ListAll loads every claim with the donor and requester chains needed by the
// report export.
func (r *ClaimRepository) ListAll(ctx context.Context) ([]entity.Claim, error) {
	var claims []entity.Claim
	err := r.db.WithContext(ctx).
		Preload("OfferedItem.Offer.Contact.Organisation").
		Preload("RequestedItem.Request.Contact.Organisation").
		Preload("Shipment").
		Order("id").Find(&claims).Error
	return claims, err
}
