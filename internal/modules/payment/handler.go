package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/middleware"
	"github.com/cicine00/7ouma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", middleware.ClientOnly(), h.CreatePayment)
		payments.POST("/:id/confirm", middleware.ClientOnly(), h.ConfirmPayment)
		payments.GET("/:id", h.GetPayment)
		payments.GET("/mine", middleware.ClientOnly(), h.GetMyPayments)
		payments.GET("/mine/provider", middleware.ProviderOnly(), h.GetProviderPayments)
	}

	rg.GET("/wallet", middleware.ProviderOnly(), h.GetWallet)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), clientID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create payment")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment id")
		return
	}

	p, err := h.service.ConfirmPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.writeError(c, err, "Failed to confirm payment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) GetPayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment id")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID, userID)
	if err != nil {
		h.writeError(c, err, "Failed to load payment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) GetMyPayments(c *gin.Context) {
	clientID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	list, err := h.service.GetClientPayments(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payments")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": list})
}

func (h *Handler) GetProviderPayments(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	list, err := h.service.GetProviderPayments(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payments")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": list})
}

func (h *Handler) GetWallet(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	wallet, err := h.service.GetWallet(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load wallet")
		return
	}

	response.Success(c, http.StatusOK, wallet)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this payment")
	case errors.Is(err, ErrBookingNotReady):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not ready for payment")
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Error(c, http.StatusConflict, "ALREADY_CONFIRMED", "Payment was already confirmed")
	case errors.Is(err, ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment amount")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
