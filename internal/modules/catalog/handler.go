package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cicine00/7ouma/internal/middleware"
	"github.com/cicine00/7ouma/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes read-only catalog browsing without a token.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/categories", h.GetCategories)
	v1.GET("/offers/search", h.Search)
	v1.GET("/offers/:id", h.GetOffer)
	v1.GET("/prices", h.GetPriceReferences)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	offers := protected.Group("/offers")
	{
		offers.POST("", middleware.ProviderOnly(), h.CreateOffer)
		offers.PUT("/:id", middleware.ProviderOnly(), h.UpdateOffer)
		offers.GET("/mine", middleware.ProviderOnly(), h.GetMyOffers)
	}
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.service.GetCategories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load categories")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng query parameters are required")
		return
	}

	results, total, err := h.service.SearchNearby(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrBadInput) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Search failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"offers": results,
		"total":  total,
	})
}

func (h *Handler) GetOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid offer id")
		return
	}

	offer, err := h.service.GetOffer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offer not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load offer")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offer": offer})
}

func (h *Handler) GetPriceReferences(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "category_id query parameter is required")
		return
	}

	refs, err := h.service.GetPriceReferences(c.Request.Context(), categoryID, c.Query("city"))
	if err != nil {
		if errors.Is(err, ErrBadInput) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load price references")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"prices": refs})
}

func (h *Handler) CreateOffer(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	offer, err := h.service.CreateOffer(c.Request.Context(), providerID, req)
	if err != nil {
		if errors.Is(err, ErrBadInput) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid price range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create offer")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"offer": offer})
}

func (h *Handler) UpdateOffer(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid offer id")
		return
	}

	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	offer, err := h.service.UpdateOffer(c.Request.Context(), providerID, offerID, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offer not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only edit your own offers")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update offer")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offer": offer})
}

func (h *Handler) GetMyOffers(c *gin.Context) {
	providerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	offers, err := h.service.GetProviderOffers(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load offers")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offers": offers, "count": len(offers)})
}
