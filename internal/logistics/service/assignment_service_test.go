package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/testutil"
	"gorm.io/gorm"
)

type logisticsEnv struct {
	db       *gorm.DB
	services *Services
	donorLoc *entity.Location
	item     *supplyentity.OfferItem
}

func setupLogisticsTest(t *testing.T) *logisticsEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := NewServices(repos)

	if err := services.Location.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed default locations: %v", err)
	}
	donorLoc, err := repos.Location.FindByName(context.Background(), entity.DefaultDonorLocation)
	if err != nil {
		t.Fatalf("load donor location: %v", err)
	}

	contact := testutil.SeedContact(t, db, "donor-001", "Dana", "Donor", "dana@example.org", nil)
	offer := testutil.SeedOffer(t, db, contact.ID, "Lenovo", "T480", 10)

	return &logisticsEnv{
		db:       db,
		services: services,
		donorLoc: donorLoc,
		item:     &offer.Items[0],
	}
}

func TestReceiveCreatesRootLedgerRow(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, err := env.services.Assignment.Receive(ctx, env.item.ID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if root.Amount != 10 {
		t.Errorf("root row should carry the full offered amount, got %d", root.Amount)
	}
	if root.LastLocationID != env.donorLoc.ID {
		t.Error("root row should sit at the default donor location")
	}
	if root.ParentShipmentItemID != nil {
		t.Error("root row must have no parent")
	}

	var item supplyentity.OfferItem
	env.db.Where("id = ?", env.item.ID).First(&item)
	if !item.Received {
		t.Error("receive should flag the offer item as received")
	}

	// Double receive is rejected
	if _, err := env.services.Assignment.Receive(ctx, env.item.ID); err == nil {
		t.Fatal("expected error on second receive")
	}
}

func TestAvailableIsAmountMinusChildren(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, err := env.services.Assignment.Receive(ctx, env.item.ID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	shipment := testutil.SeedShipment(t, env.db, "Berlin run", env.donorLoc.ID, warehouse.ID, true)
	testutil.SeedShipmentItem(t, env.db, env.item.ID, env.donorLoc.ID, 3, &shipment.ID, &root.ID)

	row, err := env.services.Inventory.Get(ctx, root.ID)
	if err != nil {
		t.Fatalf("get row: %v", err)
	}
	if row.Available == nil || *row.Available != 7 {
		t.Fatalf("expected available 7 on the root row, got %v", row.Available)
	}

	// Pool contains both the partially drained root (7) and the child (3)
	pool, _, err := env.services.Inventory.ListPool(ctx, repository.ShipmentItemListParams{})
	if err != nil {
		t.Fatalf("list pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 pool rows, got %d", len(pool))
	}
}

func TestPreviewRejectsMixedLocations(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, _ := env.services.Assignment.Receive(ctx, env.item.ID)
	elsewhere := testutil.SeedLocation(t, env.db, "Warsaw Hub", entity.LocationTypeWarehouse)
	other := testutil.SeedShipmentItem(t, env.db, env.item.ID, elsewhere.ID, 2, nil, nil)

	_, err := env.services.Assignment.Preview(ctx, []string{root.ID, other.ID})
	if !errors.Is(err, ErrDifferentLocations) {
		t.Fatalf("expected ErrDifferentLocations, got %v", err)
	}
}

func TestPreviewRejectsUndeliveredShipment(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	inTransit := testutil.SeedShipment(t, env.db, "On the road", env.donorLoc.ID, warehouse.ID, false)
	row := testutil.SeedShipmentItem(t, env.db, env.item.ID, warehouse.ID, 5, &inTransit.ID, nil)

	_, err := env.services.Assignment.Preview(ctx, []string{row.ID})
	if !errors.Is(err, ErrNotDelivered) {
		t.Fatalf("expected ErrNotDelivered, got %v", err)
	}
}

func TestPreviewListsShipmentsFromSharedLocation(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, _ := env.services.Assignment.Receive(ctx, env.item.ID)
	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	candidate := testutil.SeedShipment(t, env.db, "Berlin run", env.donorLoc.ID, warehouse.ID, false)
	testutil.SeedShipment(t, env.db, "Wrong origin", warehouse.ID, env.donorLoc.ID, false)

	result, err := env.services.Assignment.Preview(ctx, []string{root.ID})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if result.LocationID != env.donorLoc.ID {
		t.Error("preview should report the shared location")
	}
	if len(result.Shipments) != 1 || result.Shipments[0].ID != candidate.ID {
		t.Fatalf("expected only the shipment departing the shared location, got %d", len(result.Shipments))
	}
}

func TestAssignCreatesChildRowsWithLineage(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, _ := env.services.Assignment.Receive(ctx, env.item.ID)
	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	shipment := testutil.SeedShipment(t, env.db, "Berlin run", env.donorLoc.ID, warehouse.ID, false)

	created, err := env.services.Assignment.Assign(ctx, &AssignmentInput{
		ShipmentID: shipment.ID,
		Items:      []AssignmentLine{{ItemID: root.ID, Amount: 3}},
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 child row, got %d", len(created))
	}
	child := created[0]
	if child.ParentShipmentItemID == nil || *child.ParentShipmentItemID != root.ID {
		t.Error("child must point at the original row")
	}
	if child.OfferedItemID != env.item.ID {
		t.Error("child must keep the offered item")
	}
	if child.LastLocationID != shipment.FromLocationID {
		t.Error("child must sit at the shipment's origin")
	}
	if child.ShipmentID == nil || *child.ShipmentID != shipment.ID {
		t.Error("child must be attached to the target shipment")
	}
}

func TestAssignRejectsOverdraw(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, _ := env.services.Assignment.Receive(ctx, env.item.ID)
	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	shipment := testutil.SeedShipment(t, env.db, "Berlin run", env.donorLoc.ID, warehouse.ID, false)

	_, err := env.services.Assignment.Assign(ctx, &AssignmentInput{
		ShipmentID: shipment.ID,
		Items:      []AssignmentLine{{ItemID: root.ID, Amount: 11}},
	})
	if err == nil {
		t.Fatal("expected overdraw to be rejected")
	}
}

// Assigning part of a row and then the remainder drains it out of the pool.
func TestDrainedRowLeavesThePool(t *testing.T) {
	env := setupLogisticsTest(t)
	ctx := context.Background()

	root, _ := env.services.Assignment.Receive(ctx, env.item.ID)
	warehouse := testutil.SeedLocation(t, env.db, "Berlin Warehouse", entity.LocationTypeWarehouse)
	shipment := testutil.SeedShipment(t, env.db, "Berlin run", env.donorLoc.ID, warehouse.ID, false)

	if _, err := env.services.Assignment.Assign(ctx, &AssignmentInput{
		ShipmentID: shipment.ID,
		Items:      []AssignmentLine{{ItemID: root.ID, Amount: 3}},
	}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	row, _ := env.services.Inventory.Get(ctx, root.ID)
	if row.Available == nil || *row.Available != 7 {
		t.Fatalf("expected 7 left, got %v", row.Available)
	}

	// The children sit on an undelivered shipment, so the remainder is
	// assigned directly from the root row.
	if _, err := env.services.Assignment.Assign(ctx, &AssignmentInput{
		ShipmentID: shipment.ID,
		Items:      []AssignmentLine{{ItemID: root.ID, Amount: 7}},
	}); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	pool, _, err := env.services.Inventory.ListPool(ctx, repository.ShipmentItemListParams{
		LastLocationID: env.donorLoc.ID,
	})
	if err != nil {
		t.Fatalf("list pool: %v", err)
	}
	for _, row := range pool {
		if row.ID == root.ID {
			t.Error("fully assigned row must not appear in the pool")
		}
	}
}
