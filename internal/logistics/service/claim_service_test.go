package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/logistics/repository"
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/testutil"
	"github.com/google/uuid"
)

func TestClaimReportColumnsAndValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewClaimService(repository.NewClaimRepository(db))
	ctx := context.Background()

	donorOrg := testutil.SeedOrganisation(t, db, "org-donor", "Acme Corp")
	requesterOrg := testutil.SeedOrganisation(t, db, "org-req", "Helping Hands")
	donor := testutil.SeedContact(t, db, "donor-001", "Dana", "Donor", "dana@acme.example", &donorOrg.ID)
	requester := testutil.SeedContact(t, db, "req-001", "Rita", "Requester", "rita@hands.example", &requesterOrg.ID)

	offer := testutil.SeedOffer(t, db, donor.ID, "Lenovo", "T480", 10)

	now := time.Now()
	request := &supplyentity.Request{
		ID:        uuid.New().String(),
		ContactID: requester.ID,
		Goal:      "School lab",
		CreatedAt: now,
		UpdatedAt: now,
		Items: []supplyentity.RequestItem{{
			ID:        uuid.New().String(),
			Type:      supplyentity.ItemTypeHardware,
			Brand:     "Lenovo",
			Model:     "T480",
			Amount:    5,
			CreatedAt: now,
			UpdatedAt: now,
		}},
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	from := testutil.SeedLocation(t, db, "Donor", entity.LocationTypeDonor)
	to := testutil.SeedLocation(t, db, "Kyiv School", entity.LocationTypeRequester)
	shipment := testutil.SeedShipment(t, db, "Kyiv run", from.ID, to.ID, false)

	claim, err := svc.Create(ctx, &SaveClaimInput{
		RequestedItemID: request.Items[0].ID,
		OfferedItemID:   offer.Items[0].ID,
		Amount:          5,
		ShipmentID:      shipment.ID,
	})
	if err != nil {
		t.Fatalf("create claim: %v", err)
	}
	if claim.ID == "" {
		t.Fatal("expected claim to get an id")
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}

	wantHeader := []string{
		"amount", "type", "brand", "model", "shipment",
		"donor_first_name", "donor_last_name", "donor_email", "donor_organisation",
		"requester_first_name", "requester_last_name", "requester_email", "requester_organisation",
	}
	if len(records[0]) != len(wantHeader) {
		t.Fatalf("expected %d columns, got %d", len(wantHeader), len(records[0]))
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("column %d: got %q, want %q", i, records[0][i], col)
		}
	}

	row := records[1]
	want := []string{
		"5", "HARDWARE", "Lenovo", "T480", "Kyiv run",
		"Dana", "Donor", "dana@acme.example", "Acme Corp",
		"Rita", "Requester", "rita@hands.example", "Helping Hands",
	}
	for i, v := range want {
		if row[i] != v {
			t.Errorf("row column %d: got %q, want %q", i, row[i], v)
		}
	}
}
