package handler

import (
	"github.com/dest81/aid-coordinator/internal/logistics/service"
)

// Handlers logistics HTTP handler set
type Handlers struct {
	Location  *LocationHandler
	Equipment *EquipmentHandler
	Shipment  *ShipmentHandler
	Inventory *InventoryHandler
	Claim     *ClaimHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Location:  NewLocationHandler(services.Location),
		Equipment: NewEquipmentHandler(services.Equipment),
		Shipment:  NewShipmentHandler(services.Shipment),
		Inventory: NewInventoryHandler(services.Inventory, services.Assignment),
		Claim:     NewClaimHandler(services.Claim),
	}
}
