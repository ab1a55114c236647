package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingAccepted   BookingStatus = "accepted"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	// BookingDisputed is reserved in the contract; no transition reaches it yet.
	BookingDisputed BookingStatus = "disputed"
)

// ParseBookingStatus returns the status for a filter string, or false for
// unknown values. Callers treat unknown filters as "no filter".
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingAccepted, BookingInProgress,
		BookingCompleted, BookingCancelled, BookingDisputed:
		return BookingStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// BookingRequest is a client's service request awaiting provider quotes.
type BookingRequest struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID         uuid.UUID     `json:"client_id" gorm:"type:uuid;not null;index"`
	CategoryID       int64         `json:"category_id" gorm:"not null"`
	Title            string        `json:"title" gorm:"size:200;not null"`
	Description      string        `json:"description" gorm:"type:text"`
	ClientLatitude   float64       `json:"client_latitude"`
	ClientLongitude  float64       `json:"client_longitude"`
	ClientAddress    string        `json:"client_address" gorm:"size:300"`
	ClientQuarter    string        `json:"client_quarter" gorm:"size:100"`
	IsUrgent         bool          `json:"is_urgent"`
	PreferredPayment PaymentMethod `json:"preferred_payment" gorm:"type:varchar(16);default:'cash'"`
	Status           BookingStatus `json:"status" gorm:"type:varchar(16);index;default:'pending'"`
	CancelReason     string        `json:"cancel_reason,omitempty" gorm:"type:text"`
	ScheduledAt      *time.Time    `json:"scheduled_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`

	Quotes []BookingQuote `json:"quotes" gorm:"foreignKey:BookingRequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Photos []BookingPhoto `json:"photos" gorm:"foreignKey:BookingRequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (BookingRequest) TableName() string { return "booking_requests" }

func (b *BookingRequest) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// AcceptedQuote returns the accepted quote, if any.
func (b *BookingRequest) AcceptedQuote() *BookingQuote {
	for i := range b.Quotes {
		if b.Quotes[i].IsAccepted {
			return &b.Quotes[i]
		}
	}
	return nil
}

// BookingQuote is a provider's priced offer against a booking request.
// Accepted and rejected are mutually exclusive; at most one quote per
// request carries IsAccepted=true.
type BookingQuote struct {
	ID                      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BookingRequestID        uuid.UUID `json:"booking_request_id" gorm:"type:uuid;not null;index"`
	ProviderID              uuid.UUID `json:"provider_id" gorm:"type:uuid;not null;index"`
	ProviderName            string    `json:"provider_name" gorm:"size:200"`
	ProposedPrice           float64   `json:"proposed_price" gorm:"type:decimal(10,2);not null"`
	Note                    string    `json:"note,omitempty" gorm:"type:text"`
	EstimatedArrivalMinutes int       `json:"estimated_arrival_minutes"`
	IsAccepted              bool      `json:"is_accepted" gorm:"not null;default:false"`
	IsRejected              bool      `json:"is_rejected" gorm:"not null;default:false"`
	CreatedAt               time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (BookingQuote) TableName() string { return "booking_quotes" }

func (q *BookingQuote) BeforeCreate(_ *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// BookingPhoto is an attachment URL owned by a booking request.
type BookingPhoto struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BookingRequestID uuid.UUID `json:"booking_request_id" gorm:"type:uuid;not null;index"`
	URL              string    `json:"url" gorm:"size:500;not null"`
}

func (BookingPhoto) TableName() string { return "booking_photos" }

func (p *BookingPhoto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProviderLocation is the provider's live position during an in-progress
// booking. It only ever exists as a tracking channel message, never in the
// database.
type ProviderLocation struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	UpdatedAt  time.Time `json:"updated_at"`
}
