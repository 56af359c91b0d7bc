package repository

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"gorm.io/gorm"
)

// availableExpr is the ledger balance of one row: its amount minus everything
// already moved on through child rows. Recomputed on every query, never cached.
const availableExpr = `shipment_items.amount - (SELECT COALESCE(SUM(c.amount), 0)
	FROM shipment_items c WHERE c.parent_shipment_item_id = shipment_items.id)`

const shipmentItemSelect = `shipment_items.*, ` + availableExpr + ` AS available`

type ShipmentItemRepository struct {
	db *gorm.DB
}

func NewShipmentItemRepository(db *gorm.DB) *ShipmentItemRepository {
	return &ShipmentItemRepository{db: db}
}

func (r *ShipmentItemRepository) FindByID(ctx context.Context, id string) (*entity.ShipmentItem, error) {
	var item entity.ShipmentItem
	err := r.db.WithContext(ctx).Select(shipmentItemSelect).
		Preload("OfferedItem").Preload("LastLocation").Preload("Shipment").
		Where("shipment_items.id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads a selection of rows with their balances, preserving the
// annotations needed by the assignment workflow.
func (r *ShipmentItemRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.ShipmentItem, error) {
	var items []entity.ShipmentItem
	err := r.db.WithContext(ctx).Select(shipmentItemSelect).
		Preload("OfferedItem").Preload("LastLocation").Preload("Shipment").
		Where("shipment_items.id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *ShipmentItemRepository) Create(ctx context.Context, item *entity.ShipmentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

type ShipmentItemListParams struct {
	LastLocationID string
	ShipmentID     string
	OfferedItemID  string
	Delivered      *bool
	OrganisationID string
	Keyword        string
	// OnlyAvailable restricts to rows with a positive balance (the pool).
	OnlyAvailable bool
	Page          int
	Size          int
}

func (r *ShipmentItemRepository) List(ctx context.Context, params ShipmentItemListParams) ([]entity.ShipmentItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.ShipmentItem{}).
		Joins("JOIN offer_items ON offer_items.id = shipment_items.offered_item_id").
		Joins("JOIN offers ON offers.id = offer_items.offer_id").
		Joins("JOIN contacts ON contacts.id = offers.contact_id").
		Joins("LEFT JOIN shipments ON shipments.id = shipment_items.shipment_id")
	if params.LastLocationID != "" {
		query = query.Where("shipment_items.last_location_id = ?", params.LastLocationID)
	}
	if params.ShipmentID != "" {
		query = query.Where("shipment_items.shipment_id = ?", params.ShipmentID)
	}
	if params.OfferedItemID != "" {
		query = query.Where("shipment_items.offered_item_id = ?", params.OfferedItemID)
	}
	if params.Delivered != nil {
		if *params.Delivered {
			query = query.Where("shipment_items.shipment_id IS NULL OR shipments.is_delivered")
		} else {
			query = query.Where("shipment_items.shipment_id IS NOT NULL AND NOT shipments.is_delivered")
		}
	}
	if params.OrganisationID != "" {
		query = query.Where("contacts.organisation_id = ?", params.OrganisationID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where(`offer_items.brand ILIKE ? OR offer_items.model ILIKE ?
			OR EXISTS (SELECT 1 FROM organisations o WHERE o.id = contacts.organisation_id AND o.name ILIKE ?)`,
			kw, kw, kw)
	}
	if params.OnlyAvailable {
		query = query.Where(availableExpr + " > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.ShipmentItem
	err := query.Select(shipmentItemSelect).
		Preload("OfferedItem").Preload("LastLocation").Preload("Shipment").
		Order("shipment_items.created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// DB returns the underlying handle for transactional service code.
func (r *ShipmentItemRepository) DB() *gorm.DB {
	return r.db
}
