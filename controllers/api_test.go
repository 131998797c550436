package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cargo/config"
	"cargo/controllers"
	"cargo/database"
	"cargo/routes"
	"cargo/storage"
	"cargo/utils"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = config.Config{
		DBDriver:       "sqlite",
		JWTSecret:      "test-secret",
		JWTExpiryHours: 24,
		Environment:    "test",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&database.Customer{},
		&database.AdminUser{},
		&database.Branch{},
		&database.VehicleType{},
		&database.Vehicle{},
		&database.Reservation{},
		&database.Rental{},
		&database.Payment{},
	))
	database.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

type catalog struct {
	branchID  uint
	branch2ID uint
	typeID    uint
	vehicleID uint
}

func seedCatalog(t *testing.T) catalog {
	t.Helper()

	branch := database.Branch{Name: "Downtown", City: "Riyadh", Address: "1 King Fahd Rd", Phone: "011-555-0101"}
	require.NoError(t, database.DB.Create(&branch).Error)
	branch2 := database.Branch{Name: "Airport", City: "Riyadh", Address: "Terminal 5", Phone: "011-555-0102"}
	require.NoError(t, database.DB.Create(&branch2).Error)

	vt := database.VehicleType{Name: "Economy", DailyRate: 50.00, Description: "Compact cars"}
	require.NoError(t, database.DB.Create(&vt).Error)

	vehicle := database.Vehicle{
		RegistrationNo: "ABC-1234",
		Make:           "Toyota",
		CarModel:       "Yaris",
		YearMade:       2022,
		VehicleTypeID:  vt.ID,
		BranchID:       branch.ID,
		Status:         database.VehicleStatusAvailable,
	}
	require.NoError(t, database.DB.Create(&vehicle).Error)

	return catalog{branchID: branch.ID, branch2ID: branch2.ID, typeID: vt.ID, vehicleID: vehicle.ID}
}

func doJSON(t *testing.T, r *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerCustomer(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func seedAdmin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	hash, err := utils.HashPassword("admin-pass")
	require.NoError(t, err)
	admin := database.AdminUser{Name: "Admin", Email: "admin@cargo.test", PasswordHash: hash}
	require.NoError(t, database.DB.Create(&admin).Error)

	w := doJSON(t, r, http.MethodPost, "/api/admin/login", "", gin.H{
		"email":    "admin@cargo.test",
		"password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	r := setupServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", decodeBody(t, w)["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Sara Ahmed",
		"email":    "sara@example.com",
		"password": "secret123",
		"phone":    "0501234567",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.NotZero(t, body["customer_id"])

	// The form's single name field is split into first and last.
	var customer database.Customer
	require.NoError(t, database.DB.Where("email = ?", "sara@example.com").First(&customer).Error)
	assert.Equal(t, "Sara", customer.FirstName)
	assert.Equal(t, "Ahmed", customer.LastName)
	assert.NotEqual(t, "secret123", customer.PasswordHash)

	// Duplicate email.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Sara Again",
		"email":    "sara@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Password below the minimum length.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Shorty",
		"email":    "short@example.com",
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login round trip.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sara@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	// Wrong password.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sara@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReservationEndpoints(t *testing.T) {
	r := setupServer(t)
	cat := seedCatalog(t)
	token1 := registerCustomer(t, r, "Sara Ahmed", "sara@example.com")
	token2 := registerCustomer(t, r, "Omar Hassan", "omar@example.com")

	makeReservation := func(token, start, end string) *httptest.ResponseRecorder {
		return doJSON(t, r, http.MethodPost, "/api/reservations", token, gin.H{
			"vehicle_id":        cat.vehicleID,
			"pickup_branch_id":  cat.branchID,
			"dropoff_branch_id": cat.branchID,
			"start_date":        start,
			"end_date":          end,
		})
	}

	// No token.
	w := makeReservation("", "2024-03-01", "2024-03-05")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Booked.
	w = makeReservation(token1, "2024-03-01", "2024-03-05")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotZero(t, decodeBody(t, w)["reservation_id"])

	// Overlapping request from another customer.
	w = makeReservation(token2, "2024-03-03", "2024-03-04")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed date.
	w = makeReservation(token1, "03/01/2024", "2024-03-05")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Inverted range.
	w = makeReservation(token1, "2024-03-05", "2024-03-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Each customer sees only their own reservations.
	w = doJSON(t, r, http.MethodGet, "/api/reservations/my", token1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "BOOKED", mine[0]["status"])
	assert.Equal(t, "Yaris", mine[0]["vehicle_model"])
	assert.Equal(t, "Downtown", mine[0]["pickup_branch"])

	w = doJSON(t, r, http.MethodGet, "/api/reservations/my", token2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 0)
}

func TestRentalAndPaymentEndpoints(t *testing.T) {
	r := setupServer(t)
	cat := seedCatalog(t)
	token1 := registerCustomer(t, r, "Sara Ahmed", "sara@example.com")
	token2 := registerCustomer(t, r, "Omar Hassan", "omar@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/reservations", token1, gin.H{
		"vehicle_id":        cat.vehicleID,
		"pickup_branch_id":  cat.branchID,
		"dropoff_branch_id": cat.branchID,
		"start_date":        "2024-03-01",
		"end_date":          "2024-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reservationID := decodeBody(t, w)["reservation_id"].(float64)

	// Start the rental.
	w = doJSON(t, r, http.MethodPost, "/api/rentals/start", token1, gin.H{
		"reservation_id": reservationID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rentalID := decodeBody(t, w)["rental_id"].(float64)

	// A second start on the same reservation is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/rentals/start", token1, gin.H{
		"reservation_id": reservationID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Close it. Pickup and dropoff happen within this test run, so the
	// elapsed time rounds up to the one-day minimum.
	w = doJSON(t, r, http.MethodPost, "/api/rentals/close", token1, gin.H{
		"rental_id":         rentalID,
		"dropoff_branch_id": cat.branch2ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50.00, decodeBody(t, w)["total_amount"])

	// The vehicle is back in service at the dropoff branch.
	var vehicle database.Vehicle
	require.NoError(t, database.DB.First(&vehicle, cat.vehicleID).Error)
	assert.Equal(t, database.VehicleStatusAvailable, vehicle.Status)
	assert.Equal(t, cat.branch2ID, vehicle.BranchID)

	w = doJSON(t, r, http.MethodGet, "/api/rentals/my", token1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rentals []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rentals))
	require.Len(t, rentals, 1)
	assert.Equal(t, "COMPLETED", rentals[0]["status"])

	// Another customer cannot pay against this rental.
	w = doJSON(t, r, http.MethodPost, "/api/payments", token2, gin.H{
		"rental_id": rentalID,
		"amount":    50.00,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner can.
	w = doJSON(t, r, http.MethodPost, "/api/payments", token1, gin.H{
		"rental_id": rentalID,
		"amount":    50.00,
		"method":    "CARD",
		"remarks":   "paid in full",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotZero(t, decodeBody(t, w)["payment_id"])

	w = doJSON(t, r, http.MethodGet, "/api/payments/my", token1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "CARD", payments[0]["method"])

	w = doJSON(t, r, http.MethodGet, "/api/payments/my", token2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
	assert.Len(t, payments, 0)
}

func TestPaymentOrderUnconfigured(t *testing.T) {
	r := setupServer(t)
	seedCatalog(t)
	token := registerCustomer(t, r, "Sara Ahmed", "sara@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/payments/order", token, gin.H{"rental_id": 1})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminAuthorization(t *testing.T) {
	r := setupServer(t)
	cat := seedCatalog(t)
	customerToken := registerCustomer(t, r, "Sara Ahmed", "sara@example.com")

	newBranch := gin.H{"branch_name": "Mall", "city": "Jeddah"}

	// No token at all.
	w := doJSON(t, r, http.MethodPost, "/api/branches", "", newBranch)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Customer token lacks the admin claim.
	w = doJSON(t, r, http.MethodPost, "/api/branches", customerToken, newBranch)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong admin password.
	w = doJSON(t, r, http.MethodPost, "/api/admin/login", "", gin.H{
		"email":    "admin@cargo.test",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	adminToken := seedAdmin(t, r)

	w = doJSON(t, r, http.MethodPost, "/api/branches", adminToken, newBranch)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/vehicle-types", adminToken, gin.H{
		"type_name":  "Luxury",
		"daily_rate": 300.00,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Admin reservation management.
	w = doJSON(t, r, http.MethodPost, "/api/reservations", customerToken, gin.H{
		"vehicle_id":        cat.vehicleID,
		"pickup_branch_id":  cat.branchID,
		"dropoff_branch_id": cat.branchID,
		"start_date":        "2024-03-01",
		"end_date":          "2024-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reservationID := decodeBody(t, w)["reservation_id"].(float64)

	w = doJSON(t, r, http.MethodGet, "/api/admin/reservations", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	// A BOOKED reservation cannot jump straight to COMPLETED.
	target := fmt.Sprintf("/api/admin/reservations/%.0f", reservationID)
	w = doJSON(t, r, http.MethodPut, target, adminToken, gin.H{"status": "COMPLETED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Cancelling it is legal.
	w = doJSON(t, r, http.MethodPut, target, adminToken, gin.H{"status": "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Customers cannot reach the admin reservation listing.
	w = doJSON(t, r, http.MethodGet, "/api/admin/reservations", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAvailableVehiclesEndpoint(t *testing.T) {
	r := setupServer(t)
	cat := seedCatalog(t)
	token := registerCustomer(t, r, "Sara Ahmed", "sara@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/reservations", token, gin.H{
		"vehicle_id":        cat.vehicleID,
		"pickup_branch_id":  cat.branchID,
		"dropoff_branch_id": cat.branchID,
		"start_date":        "2024-03-01",
		"end_date":          "2024-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Without a date range the vehicle is listed.
	w = doJSON(t, r, http.MethodGet, "/api/vehicles/available", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vehicles []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	require.Len(t, vehicles, 1)
	assert.Equal(t, "ABC-1234", vehicles[0]["registration_no"])
	assert.Equal(t, "Economy", vehicles[0]["type_name"])

	// Inside the reserved range it is not.
	w = doJSON(t, r, http.MethodGet, "/api/vehicles/available?start_date=2024-03-02&end_date=2024-03-03", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles, 0)

	// Malformed date.
	w = doJSON(t, r, http.MethodGet, "/api/vehicles/available?start_date=bogus&end_date=2024-03-03", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleImageUploadAndDelete(t *testing.T) {
	r := setupServer(t)
	cat := seedCatalog(t)
	adminToken := seedAdmin(t, r)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads/vehicles")
	require.NoError(t, err)
	controllers.ImageStore = store

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", "car photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/vehicles/%d/images", cat.vehicleID), body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	url, _ := decodeBody(t, w)["url"].(string)
	require.NotEmpty(t, url)
	filename := path.Base(url)

	// File is on disk and the URL is persisted on the vehicle.
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(data))

	var vehicle database.Vehicle
	require.NoError(t, database.DB.First(&vehicle, cat.vehicleID).Error)
	assert.Equal(t, url, vehicle.ImageURL)

	// Delete removes the file and unsets the URL.
	target := fmt.Sprintf("/api/vehicles/%d/images/%s", cat.vehicleID, filename)
	w = doJSON(t, r, http.MethodDelete, target, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err = os.Stat(filepath.Join(dir, filename))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, database.DB.First(&vehicle, cat.vehicleID).Error)
	assert.Empty(t, vehicle.ImageURL)
}
