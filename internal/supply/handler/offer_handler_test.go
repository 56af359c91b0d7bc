package handler

import (
	"net/http"
	"testing"

	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/dest81/aid-coordinator/internal/supply/service"
	"github.com/dest81/aid-coordinator/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupOfferTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/offers/:id", handlers.Offer.Get)
	api.POST("/offers", handlers.Offer.Create)
	api.GET("/offer-items", handlers.Offer.ListItems)
	api.POST("/offers/items/set-type", handlers.Offer.SetItemsType)
	api.GET("/changes", handlers.Change.List)

	return router, db
}

func TestOfferItemListRequiresRequesterOrSuperuser(t *testing.T) {
	router, db := setupOfferTest(t)
	testutil.SeedContact(t, db, "donor-001", "Dana", "Donor", "dana@example.org", nil)

	donorToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: "donor-001", Name: "Dana Donor", Email: "dana@example.org", IsDonor: true,
	})
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/offer-items", nil, donorToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("donor listing offer items: got %d, want 403", w.Code)
	}

	requesterToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: "req-001", Name: "Rita Requester", Email: "rita@example.org", IsRequester: true,
	})
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/offer-items", nil, requesterToken)
	if w.Code != http.StatusOK {
		t.Fatalf("requester listing offer items: got %d, want 200", w.Code)
	}
}

func TestOfferGetHidesInternalNotesAndForeignOffers(t *testing.T) {
	router, db := setupOfferTest(t)
	owner := testutil.SeedContact(t, db, "owner-001", "Olga", "Owner", "olga@example.org", nil)
	offer := testutil.SeedOffer(t, db, owner.ID, "Lenovo", "T480", 5)
	db.Model(offer).Update("internal_notes", "call before pickup")

	ownerToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: owner.ID, Name: "Olga Owner", Email: owner.Email, IsDonor: true,
	})
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/offers/"+offer.ID, nil, ownerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get: got %d, want 200", w.Code)
	}
	body := testutil.ParseResponse(w)
	data := body["data"].(map[string]interface{})
	if notes, ok := data["internal_notes"]; ok && notes != "" {
		t.Errorf("internal notes leaked to non-superuser: %v", notes)
	}

	// An unrelated contact with an organisation does not own the offer
	strangerToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: "stranger-001", Name: "Sam Stranger", Email: "sam@example.org",
		IsDonor: true, OrganisationID: "some-org",
	})
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/offers/"+offer.ID, nil, strangerToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger get: got %d, want 403", w.Code)
	}
}

func TestBulkSetTypeIsSuperuserOnly(t *testing.T) {
	router, db := setupOfferTest(t)
	owner := testutil.SeedContact(t, db, "owner-001", "Olga", "Owner", "olga@example.org", nil)
	offer := testutil.SeedOffer(t, db, owner.ID, "Lenovo", "T480", 5)

	body := map[string]interface{}{
		"ids":  []string{offer.Items[0].ID},
		"type": "SOFTWARE",
	}
	ownerToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: owner.ID, Name: "Olga Owner", Email: owner.Email, IsDonor: true,
	})
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/offers/items/set-type", body, ownerToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("owner bulk action: got %d, want 403", w.Code)
	}

	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/offers/items/set-type", body, testutil.SuperuserToken())
	if w.Code != http.StatusOK {
		t.Fatalf("superuser bulk action: got %d, want 200", w.Code)
	}
}

func TestChangeListIsSuperuserOnly(t *testing.T) {
	router, db := setupOfferTest(t)
	testutil.SeedContact(t, db, "donor-001", "Dana", "Donor", "dana@example.org", nil)

	donorToken := testutil.GenerateTestToken(testutil.TokenOpts{
		UserID: "donor-001", Name: "Dana Donor", Email: "dana@example.org", IsDonor: true,
	})
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/changes", nil, donorToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("donor reading audit log: got %d, want 403", w.Code)
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/changes", nil, testutil.SuperuserToken())
	if w.Code != http.StatusOK {
		t.Fatalf("superuser reading audit log: got %d, want 200", w.Code)
	}
}
