package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentRecord settles a completed booking: gross amount, platform
// commission and the provider payout.
type PaymentRecord struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID        uuid.UUID     `json:"booking_id" gorm:"type:uuid;not null;index"`
	ClientID         uuid.UUID     `json:"client_id" gorm:"type:uuid;not null;index"`
	ProviderID       uuid.UUID     `json:"provider_id" gorm:"type:uuid;not null;index"`
	Amount           float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	CommissionAmount float64       `json:"commission_amount" gorm:"type:decimal(10,2)"`
	ProviderPayout   float64       `json:"provider_payout" gorm:"type:decimal(10,2)"`
	Method           PaymentMethod `json:"method" gorm:"type:varchar(16)"`
	Status           PaymentStatus `json:"status" gorm:"type:varchar(16);index;default:'pending'"`
	Currency         string        `json:"currency" gorm:"size:8;default:'MAD'"`
	TransactionRef   string        `json:"transaction_ref,omitempty" gorm:"size:64"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

func (PaymentRecord) TableName() string { return "payments" }

func (p *PaymentRecord) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProviderWallet accumulates confirmed payouts.
type ProviderWallet struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProviderID     uuid.UUID `json:"provider_id" gorm:"type:uuid;not null;uniqueIndex"`
	Balance        float64   `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
	TotalEarned    float64   `json:"total_earned" gorm:"type:decimal(12,2);not null;default:0"`
	TotalWithdrawn float64   `json:"total_withdrawn" gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ProviderWallet) TableName() string { return "provider_wallets" }

func (w *ProviderWallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WalletTransaction records every wallet balance movement.
type WalletTransaction struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WalletID    uuid.UUID `json:"wallet_id" gorm:"type:uuid;not null;index"`
	PaymentID   uuid.UUID `json:"payment_id" gorm:"type:uuid"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type        string    `json:"type" gorm:"type:varchar(16);not null;check:type IN ('credit','debit')"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }

func (t *WalletTransaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
