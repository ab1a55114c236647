package catalog

import "github.com/cicine00/7ouma/internal/domain"

type CreateOfferRequest struct {
	CategoryID         int64    `json:"category_id" binding:"required"`
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	BasePrice          float64  `json:"base_price" binding:"required"`
	MaxPrice           float64  `json:"max_price"`
	City               string   `json:"city" binding:"required"`
	Quarter            string   `json:"quarter"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	RadiusKm           float64  `json:"radius_km"`
	IsUrgencyAvailable bool     `json:"is_urgency_available"`
	Images             []string `json:"images"`
}

type UpdateOfferRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	BasePrice          *float64 `json:"base_price"`
	MaxPrice           *float64 `json:"max_price"`
	Quarter            *string  `json:"quarter"`
	RadiusKm           *float64 `json:"radius_km"`
	IsAvailable        *bool    `json:"is_available"`
	IsUrgencyAvailable *bool    `json:"is_urgency_available"`
}

type SearchRequest struct {
	Latitude    float64 `form:"lat" binding:"required"`
	Longitude   float64 `form:"lng" binding:"required"`
	CategoryID  int64   `form:"category_id"`
	UrgencyOnly bool    `form:"urgency_only"`
	MaxPrice    float64 `form:"max_price"`
	Query       string  `form:"q"`
	Page        int     `form:"page"`
	PerPage     int     `form:"per_page"`
}

// OfferResult is a search hit with the distance to the searching client.
type OfferResult struct {
	domain.ServiceOffer
	DistanceKm float64 `json:"distance_km"`
}
