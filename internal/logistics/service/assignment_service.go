package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDifferentLocations = errors.New("items are in different locations")
	ErrNotDelivered       = errors.New("not delivered yet")
	ErrNothingSelected    = errors.New("no items selected")
)

// AssignmentService runs the two-phase shipment assignment: a stateless
// preview that validates the selection and lists candidate shipments, and a
// commit that re-validates and appends child ledger rows in one transaction.
type AssignmentService struct {
	shipmentItemRepo *repository.ShipmentItemRepository
	shipmentRepo     *repository.ShipmentRepository
	locationRepo     *repository.LocationRepository
}

func NewAssignmentService(
	shipmentItemRepo *repository.ShipmentItemRepository,
	shipmentRepo *repository.ShipmentRepository,
	locationRepo *repository.LocationRepository,
) *AssignmentService {
	return &AssignmentService{
		shipmentItemRepo: shipmentItemRepo,
		shipmentRepo:     shipmentRepo,
		locationRepo:     locationRepo,
	}
}

type PreviewResult struct {
	Items      []entity.ShipmentItem `json:"items"`
	LocationID string                `json:"location_id"`
	Shipments  []entity.Shipment     `json:"shipments"`
}

// Preview validates a selection of ledger rows and returns the shipments the
// selection could be assigned to. Nothing is written.
func (s *AssignmentService) Preview(ctx context.Context, itemIDs []string) (*PreviewResult, error) {
	items, locationID, err := s.loadAndValidate(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	shipments, err := s.shipmentRepo.FindByFromLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("load candidate shipments: %w", err)
	}
	return &PreviewResult{Items: items, LocationID: locationID, Shipments: shipments}, nil
}

func (s *AssignmentService) loadAndValidate(ctx context.Context, itemIDs []string) ([]entity.ShipmentItem, string, error) {
	if len(itemIDs) == 0 {
		return nil, "", ErrNothingSelected
	}
	items, err := s.shipmentItemRepo.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, "", fmt.Errorf("load shipment items: %w", err)
	}
	if len(items) != len(itemIDs) {
		return nil, "", fmt.Errorf("selection contains unknown items")
	}
	locationID := ""
	for idx := range items {
		item := &items[idx]
		if locationID == "" {
			locationID = item.LastLocationID
		} else if item.LastLocationID != locationID {
			return nil, "", ErrDifferentLocations
		}
		if !item.IsDelivered() {
			return nil, "", fmt.Errorf("%w: %s", ErrNotDelivered, item.ID)
		}
	}
	return items, locationID, nil
}

type AssignmentLine struct {
	ItemID string `json:"item_id" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

type AssignmentInput struct {
	ShipmentID string           `json:"shipment_id" binding:"required"`
	Items      []AssignmentLine `json:"items" binding:"required,min=1,dive"`
}

// Assign re-validates the selection and appends one child row per line inside
// a single transaction. Each row's balance is re-checked against the ledger
// after the row locks are taken, so concurrent assignments cannot overdraw.
func (s *AssignmentService) Assign(ctx context.Context, input *AssignmentInput) ([]entity.ShipmentItem, error) {
	shipment, err := s.shipmentRepo.FindByID(ctx, input.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("shipment not found: %w", err)
	}

	ids := make([]string, 0, len(input.Items))
	for _, line := range input.Items {
		ids = append(ids, line.ItemID)
	}
	items, locationID, err := s.loadAndValidate(ctx, ids)
	if err != nil {
		return nil, err
	}
	if shipment.FromLocationID != locationID {
		return nil, fmt.Errorf("shipment does not depart from the items' location")
	}
	byID := make(map[string]*entity.ShipmentItem, len(items))
	for idx := range items {
		byID[items[idx].ID] = &items[idx]
	}

	now := time.Now()
	var created []entity.ShipmentItem
	err = s.shipmentItemRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range input.Items {
			parent := byID[line.ItemID]

			var locked entity.ShipmentItem
			if err := tx.Clauses(forUpdate()).Where("id = ?", parent.ID).First(&locked).Error; err != nil {
				return fmt.Errorf("lock shipment item: %w", err)
			}
			var assigned int64
			if err := tx.Model(&entity.ShipmentItem{}).
				Where("parent_shipment_item_id = ?", parent.ID).
				Select("COALESCE(SUM(amount), 0)").Scan(&assigned).Error; err != nil {
				return fmt.Errorf("sum children: %w", err)
			}
			available := locked.Amount - int(assigned)
			if line.Amount > available {
				return fmt.Errorf("item %s: requested %d but only %d available", parent.ID, line.Amount, available)
			}
			if err := s.checkLineage(tx, parent.ID); err != nil {
				return err
			}

			parentID := parent.ID
			when := now
			child := entity.ShipmentItem{
				ID:                   uuid.New().String(),
				OfferedItemID:        parent.OfferedItemID,
				Amount:               line.Amount,
				LastLocationID:       shipment.FromLocationID,
				ShipmentID:           &shipment.ID,
				ParentShipmentItemID: &parentID,
				When:                 &when,
				CreatedAt:            now,
			}
			if err := tx.Create(&child).Error; err != nil {
				return fmt.Errorf("create shipment item: %w", err)
			}
			created = append(created, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkLineage walks the parent chain and rejects a corrupted ledger where the
// chain loops back on itself.
func (s *AssignmentService) checkLineage(tx *gorm.DB, startID string) error {
	seen := map[string]bool{}
	currentID := startID
	for currentID != "" {
		if seen[currentID] {
			return fmt.Errorf("shipment item lineage contains a cycle at %s", currentID)
		}
		seen[currentID] = true
		var row entity.ShipmentItem
		if err := tx.Select("id, parent_shipment_item_id").Where("id = ?", currentID).First(&row).Error; err != nil {
			return fmt.Errorf("walk lineage: %w", err)
		}
		if row.ParentShipmentItemID == nil {
			break
		}
		currentID = *row.ParentShipmentItemID
	}
	return nil
}

// Receive books an offered item into the ledger: a root row with the item's
// full amount at the default Donor location, and the received flag set on the
// item. Quantity enters the pool only through this path.
func (s *AssignmentService) Receive(ctx context.Context, offerItemID string) (*entity.ShipmentItem, error) {
	donor, err := s.locationRepo.FindByName(ctx, entity.DefaultDonorLocation)
	if err != nil {
		return nil, fmt.Errorf("default donor location missing: %w", err)
	}

	now := time.Now()
	var root entity.ShipmentItem
	err = s.shipmentItemRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item supplyentity.OfferItem
		if err := tx.Clauses(forUpdate()).Where("id = ?", offerItemID).First(&item).Error; err != nil {
			return fmt.Errorf("offer item not found: %w", err)
		}
		var existing int64
		if err := tx.Model(&entity.ShipmentItem{}).
			Where("offered_item_id = ? AND parent_shipment_item_id IS NULL", offerItemID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("offer item %s already received", offerItemID)
		}
		when := now
		root = entity.ShipmentItem{
			ID:             uuid.New().String(),
			OfferedItemID:  offerItemID,
			Amount:         item.Amount,
			LastLocationID: donor.ID,
			When:           &when,
			CreatedAt:      now,
		}
		if err := tx.Create(&root).Error; err != nil {
			return fmt.Errorf("create root shipment item: %w", err)
		}
		return tx.Model(&supplyentity.OfferItem{}).Where("id = ?", offerItemID).
			Updates(map[string]interface{}{"received": true, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return &root, nil
}
