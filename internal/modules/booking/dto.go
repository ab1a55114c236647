package booking

import (
	"time"

	"github.com/cicine00/7ouma/internal/domain"
)

type CreateBookingRequest struct {
	CategoryID       int64      `json:"category_id" binding:"required" validate:"required,gt=0"`
	Title            string     `json:"title" binding:"required" validate:"required,max=200"`
	Description      string     `json:"description"`
	ClientLatitude   float64    `json:"client_latitude" validate:"gte=-90,lte=90"`
	ClientLongitude  float64    `json:"client_longitude" validate:"gte=-180,lte=180"`
	ClientAddress    string     `json:"client_address"`
	ClientQuarter    string     `json:"client_quarter"`
	IsUrgent         bool       `json:"is_urgent"`
	PreferredPayment string     `json:"preferred_payment"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	Photos           []string   `json:"photos"`
}

type SubmitQuoteRequest struct {
	ProposedPrice           float64 `json:"proposed_price" binding:"required"`
	Note                    string  `json:"note"`
	EstimatedArrivalMinutes int     `json:"estimated_arrival_minutes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// NearbyBooking pairs a pending request with its distance from the querying
// provider.
type NearbyBooking struct {
	domain.BookingRequest
	DistanceKm float64 `json:"distance_km"`
}
