package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a service trade (plumbing, electricity, ...). Referenced by id
// from bookings and offers.
type Category struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"size:100;not null"`
	NameAr   string `json:"name_ar" gorm:"size:100"`
	Icon     string `json:"icon" gorm:"size:64"`
	Slug     string `json:"slug" gorm:"size:100;uniqueIndex"`
	IsActive bool   `json:"is_active" gorm:"not null;default:true"`
}

func (Category) TableName() string { return "categories" }

// ServiceOffer is a provider's published listing in the searchable catalog.
type ServiceOffer struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID         uuid.UUID `json:"provider_id" gorm:"type:uuid;not null;index"`
	CategoryID         int64     `json:"category_id" gorm:"not null;index"`
	Title              string    `json:"title" gorm:"size:200;not null"`
	Description        string    `json:"description" gorm:"type:text"`
	BasePrice          float64   `json:"base_price" gorm:"type:decimal(10,2)"`
	MaxPrice           float64   `json:"max_price" gorm:"type:decimal(10,2)"`
	City               string    `json:"city" gorm:"size:100"`
	Quarter            string    `json:"quarter" gorm:"size:100"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	RadiusKm           float64   `json:"radius_km" gorm:"default:10"`
	IsAvailable        bool      `json:"is_available" gorm:"not null;default:true"`
	IsUrgencyAvailable bool      `json:"is_urgency_available" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`

	Category *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []OfferImage `json:"images" gorm:"foreignKey:OfferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ServiceOffer) TableName() string { return "service_offers" }

func (o *ServiceOffer) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OfferImage struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OfferID uuid.UUID `json:"offer_id" gorm:"type:uuid;not null;index"`
	URL     string    `json:"url" gorm:"size:500;not null"`
}

func (OfferImage) TableName() string { return "offer_images" }

func (i *OfferImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PriceReference gives clients a fair-price range per category and city.
type PriceReference struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	CategoryID   int64   `json:"category_id" gorm:"not null;index"`
	ServiceType  string  `json:"service_type" gorm:"size:200"`
	MinPrice     float64 `json:"min_price" gorm:"type:decimal(10,2)"`
	MaxPrice     float64 `json:"max_price" gorm:"type:decimal(10,2)"`
	AveragePrice float64 `json:"average_price" gorm:"type:decimal(10,2)"`
	City         string  `json:"city" gorm:"size:100"`
}

func (PriceReference) TableName() string { return "price_references" }
