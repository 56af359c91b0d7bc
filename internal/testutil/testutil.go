package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	contactsentity "github.com/dest81/aid-coordinator/internal/contacts/entity"
	logisticsentity "github.com/dest81/aid-coordinator/internal/logistics/entity"
	"github.com/dest81/aid-coordinator/internal/middleware"
	supplyentity "github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_aid"
	JWTSecret  = "aid-coordinator-test-secret"
)

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "aid")
	password := getEnv("DB_PASSWORD", "aid123")
	dbname := getEnv("DB_NAME", "aid_coordinator")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := contactsentity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate contacts tables: %v", err)
	}
	if err := supplyentity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate supply tables: %v", err)
	}
	if err := logisticsentity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate logistics tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// TokenOpts describes the user minted into a test token.
type TokenOpts struct {
	UserID         string
	Name           string
	Email          string
	IsSuperuser    bool
	IsDonor        bool
	IsRequester    bool
	OrganisationID string
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(opts TokenOpts) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":             opts.UserID,
		"uid":             opts.UserID,
		"name":            opts.Name,
		"email":           opts.Email,
		"is_superuser":    opts.IsSuperuser,
		"is_donor":        opts.IsDonor,
		"is_requester":    opts.IsRequester,
		"organisation_id": opts.OrganisationID,
		"iss":             "aid-coordinator",
		"iat":             now.Unix(),
		"exp":             now.Add(24 * time.Hour).Unix(),
		"jti":             fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// SuperuserToken returns a token for a staff test user
func SuperuserToken() string {
	return GenerateTestToken(TokenOpts{
		UserID:      "test-admin-001",
		Name:        "Test Admin",
		Email:       "admin@test.com",
		IsSuperuser: true,
	})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedContact creates a contact, optionally inside an organisation.
func SeedContact(t *testing.T, db *gorm.DB, id, first, last, email string, organisationID *string) *contactsentity.Contact {
	t.Helper()
	contact := &contactsentity.Contact{
		ID:             id,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		OrganisationID: organisationID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("Failed to seed contact: %v", err)
	}
	return contact
}

// SeedOrganisation creates an organisation.
func SeedOrganisation(t *testing.T, db *gorm.DB, id, name string) *contactsentity.Organisation {
	t.Helper()
	org := &contactsentity.Organisation{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("Failed to seed organisation: %v", err)
	}
	return org
}

// SeedOffer creates an offer with one item of the given amount.
func SeedOffer(t *testing.T, db *gorm.DB, contactID, brand, model string, amount int) *supplyentity.Offer {
	t.Helper()
	now := time.Now()
	offer := &supplyentity.Offer{
		ID:          uuid.New().String(),
		Description: brand + " donation",
		ContactID:   contactID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items: []supplyentity.OfferItem{{
			ID:        uuid.New().String(),
			Type:      supplyentity.ItemTypeHardware,
			Brand:     brand,
			Model:     model,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}},
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("Failed to seed offer: %v", err)
	}
	return offer
}

// SeedLocation creates a location.
func SeedLocation(t *testing.T, db *gorm.DB, name, locationType string) *logisticsentity.Location {
	t.Helper()
	now := time.Now()
	location := &logisticsentity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      locationType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(location).Error; err != nil {
		t.Fatalf("Failed to seed location: %v", err)
	}
	return location
}

// SeedShipment creates a shipment between two locations.
func SeedShipment(t *testing.T, db *gorm.DB, name, fromID, toID string, delivered bool) *logisticsentity.Shipment {
	t.Helper()
	now := time.Now()
	shipment := &logisticsentity.Shipment{
		ID:             uuid.New().String(),
		Name:           name,
		FromLocationID: fromID,
		ToLocationID:   toID,
		IsDelivered:    delivered,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(shipment).Error; err != nil {
		t.Fatalf("Failed to seed shipment: %v", err)
	}
	return shipment
}

// SeedShipmentItem creates a ledger row.
func SeedShipmentItem(t *testing.T, db *gorm.DB, offeredItemID, locationID string, amount int, shipmentID, parentID *string) *logisticsentity.ShipmentItem {
	t.Helper()
	now := time.Now()
	item := &logisticsentity.ShipmentItem{
		ID:                   uuid.New().String(),
		OfferedItemID:        offeredItemID,
		Amount:               amount,
		LastLocationID:       locationID,
		ShipmentID:           shipmentID,
		ParentShipmentItemID: parentID,
		When:                 &now,
		CreatedAt:            now,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed shipment item: %v", err)
	}
	return item
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
