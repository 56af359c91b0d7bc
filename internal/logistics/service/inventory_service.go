package service

import (
	"context"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
)

// InventoryService read side of the ledger. Balances are always derived from
// the rows at query time.
type InventoryService struct {
	shipmentItemRepo *repository.ShipmentItemRepository
}

func NewInventoryService(shipmentItemRepo *repository.ShipmentItemRepository) *InventoryService {
	return &InventoryService{shipmentItemRepo: shipmentItemRepo}
}

func (s *InventoryService) Get(ctx context.Context, id string) (*entity.ShipmentItem, error) {
	return s.shipmentItemRepo.FindByID(ctx, id)
}

// ListRows lists ledger rows regardless of balance.
func (s *InventoryService) ListRows(ctx context.Context, params repository.ShipmentItemListParams) ([]entity.ShipmentItem, int64, error) {
	params.OnlyAvailable = false
	return s.shipmentItemRepo.List(ctx, params)
}

// ListPool lists only rows that still have quantity to assign.
func (s *InventoryService) ListPool(ctx context.Context, params repository.ShipmentItemListParams) ([]entity.ShipmentItem, int64, error) {
	params.OnlyAvailable = true
	return s.shipmentItemRepo.List(ctx, params)
}
