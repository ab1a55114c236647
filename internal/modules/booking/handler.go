package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/middleware"
	"github.com/cicine00/7ouma/internal/pkg/response"
	pkgvalidator "github.com/cicine00/7ouma/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", middleware.ClientOnly(), h.CreateBooking)
		bookings.GET("/mine", middleware.ClientOnly(), h.GetMyBookings)
		bookings.GET("/mine/provider", middleware.ProviderOnly(), h.GetProviderBookings)
		bookings.GET("/nearby", middleware.ProviderOnly(), h.GetNearby)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/quotes", middleware.ProviderOnly(), h.SubmitQuote)
		bookings.POST("/:id/quotes/:quoteId/accept", middleware.ClientOnly(), h.AcceptQuote)
		bookings.POST("/:id/start", middleware.ProviderOnly(), h.StartBooking)
		bookings.POST("/:id/cancel", middleware.ClientOnly(), h.CancelBooking)
		bookings.POST("/:id/complete", middleware.ClientOnly(), h.CompleteBooking)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrors := pkgvalidator.Validate(req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", fieldErrors)
		return
	}

	b, err := h.service.CreateRequest(c.Request.Context(), clientID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking request")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	list, err := h.service.GetClientBookings(c.Request.Context(), clientID, c.Query("status"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *Handler) GetProviderBookings(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	list, err := h.service.GetProviderBookings(c.Request.Context(), providerID, c.Query("status"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

type nearbyQuery struct {
	Latitude  float64 `form:"lat" binding:"required"`
	Longitude float64 `form:"lng" binding:"required"`
}

func (h *Handler) GetNearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng query parameters are required")
		return
	}

	list, err := h.service.GetNearbyRequests(c.Request.Context(), q.Latitude, q.Longitude)
	if err != nil {
		h.writeError(c, err, "Failed to load nearby requests")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": list, "count": len(list)})
}

func (h *Handler) SubmitQuote(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	quote, err := h.service.SubmitQuote(c.Request.Context(), bookingID, providerID, req)
	if err != nil {
		h.writeError(c, err, "Failed to submit quote")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quote": quote})
}

func (h *Handler) AcceptQuote(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	quoteID, err := uuid.Parse(c.Param("quoteId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote id")
		return
	}

	if err := h.service.AcceptQuote(c.Request.Context(), bookingID, quoteID, clientID); err != nil {
		h.writeError(c, err, "Failed to accept quote")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) StartBooking(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	if err := h.service.Start(c.Request.Context(), bookingID, providerID); err != nil {
		h.writeError(c, err, "Failed to start booking")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), bookingID, clientID, req.Reason); err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	if err := h.service.Complete(c.Request.Context(), bookingID, clientID); err != nil {
		h.writeError(c, err, "Failed to complete booking")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrUnauthorized:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this booking")
	case ErrInvalidState:
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not in a state that allows this operation")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
