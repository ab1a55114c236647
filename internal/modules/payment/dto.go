package payment

import (
	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
)

type CreatePaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Method    string    `json:"method" binding:"required"`
}

type WalletResponse struct {
	Wallet       *domain.ProviderWallet     `json:"wallet"`
	Transactions []domain.WalletTransaction `json:"transactions"`
}
