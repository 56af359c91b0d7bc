package service

import (
	"context"
	"testing"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/supply/perm"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/dest81/aid-coordinator/internal/testutil"
	"gorm.io/gorm"
)

func setupSupplyTest(t *testing.T) (*gorm.DB, *Services, perm.Actor) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := NewServices(repos)
	contact := testutil.SeedContact(t, db, "staff-001", "Ada", "Admin", "ada@example.org", nil)
	actor := perm.Actor{ID: contact.ID, IsSuperuser: true}
	return db, services, actor
}

func changeRows(t *testing.T, db *gorm.DB) []entity.Change {
	t.Helper()
	var changes []entity.Change
	if err := db.Order(`"when", id`).Find(&changes).Error; err != nil {
		t.Fatalf("load changes: %v", err)
	}
	return changes
}

func TestOfferAuditTrail(t *testing.T) {
	db, services, actor := setupSupplyTest(t)
	ctx := context.Background()

	input := &SaveOfferInput{
		Description: "Office clearout",
		Items: []OfferItemInput{
			{Brand: "Lenovo", Model: "T480", Amount: 10},
		},
	}
	offer, err := services.Offer.Create(ctx, actor, input)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	changes := changeRows(t, db)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change after create, got %d", len(changes))
	}
	if changes[0].Action != entity.ChangeActionAdd || changes[0].Before != "" {
		t.Errorf("create should log ADD with empty before, got %+v", changes[0])
	}
	if changes[0].Type != entity.ChangeTypeOffer {
		t.Errorf("expected OFFER type, got %s", changes[0].Type)
	}

	// Saving identical content must not log
	loaded, err := services.Offer.Get(ctx, offer.ID)
	if err != nil {
		t.Fatalf("reload offer: %v", err)
	}
	sameInput := &SaveOfferInput{
		Description: "Office clearout",
		Items: []OfferItemInput{
			{ID: loaded.Items[0].ID, Brand: "Lenovo", Model: "T480", Amount: 10},
		},
	}
	if _, err := services.Offer.Update(ctx, actor, loaded, sameInput); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if changes := changeRows(t, db); len(changes) != 1 {
		t.Fatalf("no-op save must not log, got %d changes", len(changes))
	}

	// A real change logs exactly one CHANGE row
	loaded, _ = services.Offer.Get(ctx, offer.ID)
	changedInput := &SaveOfferInput{
		Description: "Office clearout",
		Items: []OfferItemInput{
			{ID: loaded.Items[0].ID, Brand: "Lenovo", Model: "T480", Amount: 7},
		},
	}
	if _, err := services.Offer.Update(ctx, actor, loaded, changedInput); err != nil {
		t.Fatalf("update: %v", err)
	}
	changes = changeRows(t, db)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes after edit, got %d", len(changes))
	}
	last := changes[1]
	if last.Action != entity.ChangeActionChange {
		t.Errorf("expected CHANGE, got %s", last.Action)
	}
	if last.Before == last.After {
		t.Error("before and after snapshots should differ")
	}

	// Delete always logs, with an empty after snapshot
	loaded, _ = services.Offer.Get(ctx, offer.ID)
	if err := services.Offer.Delete(ctx, actor, loaded); err != nil {
		t.Fatalf("delete: %v", err)
	}
	changes = changeRows(t, db)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes after delete, got %d", len(changes))
	}
	if changes[2].Action != entity.ChangeActionDelete || changes[2].After != "" {
		t.Errorf("delete should log DELETE with empty after, got %+v", changes[2])
	}
}

func TestRequestAlternativeValidation(t *testing.T) {
	_, services, actor := setupSupplyTest(t)
	ctx := context.Background()

	// Cross-reference outside the request is rejected
	input := &SaveRequestInput{
		Goal: "Community center",
		Items: []RequestItemInput{
			{Brand: "Lenovo", Model: "T480", Amount: 2, AlternativeFor: "not-in-this-request"},
		},
	}
	if _, err := services.Request.Create(ctx, actor, input); err == nil {
		t.Fatal("expected error for foreign alternative_for reference")
	}

	// Two items substituting each other form a cycle and are rejected
	cyclic := &SaveRequestInput{
		Goal: "Community center",
		Items: []RequestItemInput{
			{ID: "item-a", Brand: "Lenovo", Model: "T480", Amount: 2, AlternativeFor: "item-b"},
			{ID: "item-b", Brand: "Dell", Model: "E7450", Amount: 2, AlternativeFor: "item-a"},
		},
	}
	if _, err := services.Request.Create(ctx, actor, cyclic); err == nil {
		t.Fatal("expected error for alternative_for cycle")
	}

	// A valid chain is accepted and rendered folded
	valid := &SaveRequestInput{
		Goal: "Community center",
		Items: []RequestItemInput{
			{ID: "item-a", Brand: "Lenovo", Model: "T480", Amount: 2},
			{ID: "item-b", Brand: "Dell", Model: "E7450", Amount: 2, AlternativeFor: "item-a"},
		},
	}
	request, err := services.Request.Create(ctx, actor, valid)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	lines, err := services.Request.ItemSummary(ctx, request.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(lines) != 1 || lines[0] != "2x Lenovo T480 or 2x Dell E7450" {
		t.Errorf("unexpected summary: %v", lines)
	}
}
