package service

import (
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
)

// Services logistics service set
type Services struct {
	Location   *LocationService
	Equipment  *EquipmentService
	Shipment   *ShipmentService
	Inventory  *InventoryService
	Assignment *AssignmentService
	Claim      *ClaimService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Location:   NewLocationService(repos.Location),
		Equipment:  NewEquipmentService(repos.Equipment),
		Shipment:   NewShipmentService(repos.Shipment, repos.Location),
		Inventory:  NewInventoryService(repos.ShipmentItem),
		Assignment: NewAssignmentService(repos.ShipmentItem, repos.Shipment, repos.Location),
		Claim:      NewClaimService(repos.Claim),
	}
}
