package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cicine00/7ouma/internal/database"
	"github.com/cicine00/7ouma/internal/middleware"
	"github.com/cicine00/7ouma/internal/modules/auth"
	"github.com/cicine00/7ouma/internal/modules/booking"
	"github.com/cicine00/7ouma/internal/modules/catalog"
	"github.com/cicine00/7ouma/internal/modules/payment"
	"github.com/cicine00/7ouma/internal/modules/tracking"
	jwtsvc "github.com/cicine00/7ouma/internal/pkg/jwt"
	"github.com/cicine00/7ouma/internal/repository"
)

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	offerRepo := repository.NewOfferRepository(db)

	j := jwtsvc.New("e2e-test-secret", time.Hour)

	hub := tracking.NewHub()

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, userRepo, hub))
	catalogHandler := catalog.NewHandler(catalog.NewService(offerRepo))
	paymentHandler := payment.NewHandler(payment.NewService(db, 0.05))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	resp := &TestResponse{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), resp)
	}
	return w, resp
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) string {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register/client", "", map[string]interface{}{
		"name":     "Client Test",
		"email":    email,
		"password": "secret123",
		"city":     "Casablanca",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp.Data["token"].(string)
}

func (s *E2ETestSuite) registerProvider(t *testing.T, email string) string {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register/provider", "", map[string]interface{}{
		"name":        "Provider Test",
		"email":       email,
		"phone":       "+212610000001",
		"password":    "secret123",
		"city":        "Casablanca",
		"category_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp.Data["token"].(string)
}

func TestFullBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	clientToken := s.registerClient(t, "client@e2e.test")
	providerToken := s.registerProvider(t, "provider@e2e.test")

	// Client posts a request in central Casablanca.
	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", clientToken, map[string]interface{}{
		"category_id":      1,
		"title":            "Fuite d'eau sous l'évier",
		"description":      "Urgent",
		"client_latitude":  33.5731,
		"client_longitude": -7.5898,
		"is_urgent":        true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingData := resp.Data["booking"].(map[string]interface{})
	bookingID := bookingData["id"].(string)
	assert.Equal(t, "pending", bookingData["status"])

	// Provider sees it in the nearby feed.
	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/nearby?lat=33.5750&lng=-7.5920", providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	requests := resp.Data["requests"].([]interface{})
	require.Len(t, requests, 1)
	first := requests[0].(map[string]interface{})
	assert.Equal(t, bookingID, first["id"])
	assert.Less(t, first["distance_km"].(float64), 1.0)

	// Provider quotes.
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/quotes", providerToken, map[string]interface{}{
		"proposed_price":            250.0,
		"note":                      "Je peux passer dans l'heure.",
		"estimated_arrival_minutes": 45,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quote := resp.Data["quote"].(map[string]interface{})
	quoteID := quote["id"].(string)
	assert.Equal(t, "Provider Test", quote["provider_name"])

	// Client accepts the quote.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/quotes/"+quoteID+"/accept", clientToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Quoting after acceptance is refused.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/quotes", providerToken, map[string]interface{}{
		"proposed_price": 200.0,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Provider starts the job, client completes it.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/start", providerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/complete", clientToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/"+bookingID, clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", resp.Data["booking"].(map[string]interface{})["status"])

	// Client settles; payment splits the commission and credits the wallet.
	w, resp = s.request(t, http.MethodPost, "/api/v1/payments", clientToken, map[string]interface{}{
		"booking_id": bookingID,
		"method":     "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paymentData := resp.Data["payment"].(map[string]interface{})
	paymentID := paymentData["id"].(string)
	assert.Equal(t, 250.0, paymentData["amount"])
	assert.Equal(t, 12.5, paymentData["commission_amount"])
	assert.Equal(t, 237.5, paymentData["provider_payout"])

	w, _ = s.request(t, http.MethodPost, "/api/v1/payments/"+paymentID+"/confirm", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp = s.request(t, http.MethodGet, "/api/v1/wallet", providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	wallet := resp.Data["wallet"].(map[string]interface{})
	assert.Equal(t, 237.5, wallet["balance"])
}

func TestCancelledBookingRejectsQuotes(t *testing.T) {
	s := setupTestSuite(t)

	clientToken := s.registerClient(t, "client2@e2e.test")
	providerToken := s.registerProvider(t, "provider2@e2e.test")

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", clientToken, map[string]interface{}{
		"category_id":      1,
		"title":            "Peinture salon",
		"client_latitude":  33.58,
		"client_longitude": -7.61,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := resp.Data["booking"].(map[string]interface{})["id"].(string)

	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", clientToken, map[string]interface{}{
		"reason": "Plus besoin",
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/quotes", providerToken, map[string]interface{}{
		"proposed_price": 500.0,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Cancelled bookings no longer appear in the nearby feed.
	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/nearby?lat=33.58&lng=-7.61", providerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, resp.Data["requests"])
}

func TestRoleEnforcement(t *testing.T) {
	s := setupTestSuite(t)

	clientToken := s.registerClient(t, "client3@e2e.test")
	providerToken := s.registerProvider(t, "provider3@e2e.test")

	// Providers cannot create bookings.
	w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", providerToken, map[string]interface{}{
		"category_id":      1,
		"title":            "x",
		"client_latitude":  33.58,
		"client_longitude": -7.61,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Clients cannot browse the provider feed.
	w, _ = s.request(t, http.MethodGet, "/api/v1/bookings/nearby?lat=33.58&lng=-7.61", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Anonymous requests are rejected.
	w, _ = s.request(t, http.MethodGet, "/api/v1/bookings/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
}

func TestStrangerCannotReadBooking(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerClient(t, "owner@e2e.test")
	strangerToken := s.registerClient(t, "stranger@e2e.test")

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", ownerToken, map[string]interface{}{
		"category_id":      1,
		"title":            "Climatisation en panne",
		"client_latitude":  33.58,
		"client_longitude": -7.61,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := resp.Data["booking"].(map[string]interface{})["id"].(string)

	w, resp = s.request(t, http.MethodGet, "/api/v1/bookings/"+bookingID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}
