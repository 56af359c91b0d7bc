package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

type ShipmentService struct {
	shipmentRepo *repository.ShipmentRepository
	locationRepo *repository.LocationRepository
}

func NewShipmentService(shipmentRepo *repository.ShipmentRepository, locationRepo *repository.LocationRepository) *ShipmentService {
	return &ShipmentService{shipmentRepo: shipmentRepo, locationRepo: locationRepo}
}

func (s *ShipmentService) Get(ctx context.Context, id string) (*entity.Shipment, error) {
	return s.shipmentRepo.FindByID(ctx, id)
}

func (s *ShipmentService) List(ctx context.Context, params repository.ShipmentListParams) ([]entity.Shipment, int64, error) {
	return s.shipmentRepo.List(ctx, params)
}

type SaveShipmentInput struct {
	Name           string     `json:"name" binding:"required"`
	ShipmentDate   *time.Time `json:"shipment_date"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	FromLocationID string     `json:"from_location_id" binding:"required"`
	ToLocationID   string     `json:"to_location_id" binding:"required"`
	IsDelivered    bool       `json:"is_delivered"`
	Notes          string     `json:"notes"`
}

func (s *ShipmentService) Create(ctx context.Context, input *SaveShipmentInput) (*entity.Shipment, error) {
	if _, err := s.locationRepo.FindByID(ctx, input.FromLocationID); err != nil {
		return nil, fmt.Errorf("from location not found: %w", err)
	}
	if _, err := s.locationRepo.FindByID(ctx, input.ToLocationID); err != nil {
		return nil, fmt.Errorf("to location not found: %w", err)
	}
	now := time.Now()
	shipment := &entity.Shipment{
		ID:             uuid.New().String(),
		Name:           input.Name,
		ShipmentDate:   input.ShipmentDate,
		DeliveryDate:   input.DeliveryDate,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		IsDelivered:    input.IsDelivered,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return shipment, nil
}

func (s *ShipmentService) Update(ctx context.Context, shipment *entity.Shipment, input *SaveShipmentInput) (*entity.Shipment, error) {
	shipment.Name = input.Name
	shipment.ShipmentDate = input.ShipmentDate
	shipment.DeliveryDate = input.DeliveryDate
	shipment.FromLocationID = input.FromLocationID
	shipment.ToLocationID = input.ToLocationID
	shipment.IsDelivered = input.IsDelivered
	shipment.Notes = input.Notes
	shipment.FromLocation = nil
	shipment.ToLocation = nil
	shipment.UpdatedAt = time.Now()
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}
	return shipment, nil
}

// MarkDelivered flags the shipment as arrived, stamping the delivery date if
// it was not set.
func (s *ShipmentService) MarkDelivered(ctx context.Context, shipment *entity.Shipment) error {
	now := time.Now()
	shipment.IsDelivered = true
	if shipment.DeliveryDate == nil {
		shipment.DeliveryDate = &now
	}
	shipment.UpdatedAt = now
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}
