package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cicine00/7ouma/internal/domain"
)

// Service settles completed bookings and credits provider wallets. It owns
// its transactions directly because wallet updates must stay in the same
// transaction as the payment row.
type Service struct {
	db             *gorm.DB
	commissionRate float64
}

func NewService(db *gorm.DB, commissionRate float64) *Service {
	return &Service{db: db, commissionRate: commissionRate}
}

// CreatePayment opens a pending settlement for a completed booking. Amount is
// the accepted quote's price; commission is taken from it.
func (s *Service) CreatePayment(ctx context.Context, clientID uuid.UUID, req CreatePaymentRequest) (*domain.PaymentRecord, error) {
	var booking domain.BookingRequest
	err := s.db.WithContext(ctx).
		Preload("Quotes").
		First(&booking, "id = ?", req.BookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if booking.ClientID != clientID {
		return nil, ErrForbidden
	}
	if booking.Status != domain.BookingCompleted {
		return nil, ErrBookingNotReady
	}

	accepted := booking.AcceptedQuote()
	if accepted == nil {
		return nil, ErrBookingNotReady
	}
	if accepted.ProposedPrice <= 0 {
		return nil, ErrInvalidAmount
	}

	method := domain.PaymentMethod(req.Method)
	if method != domain.PaymentCash && method != domain.PaymentOnline {
		method = booking.PreferredPayment
	}

	amount := accepted.ProposedPrice
	commission := round2(amount * s.commissionRate)

	p := &domain.PaymentRecord{
		BookingID:        booking.ID,
		ClientID:         booking.ClientID,
		ProviderID:       accepted.ProviderID,
		Amount:           amount,
		CommissionAmount: commission,
		ProviderPayout:   round2(amount - commission),
		Method:           method,
		Status:           domain.PaymentStatusPending,
		Currency:         "MAD",
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ConfirmPayment marks a pending payment completed and credits the provider
// wallet, all in one transaction. Confirming twice returns
// ErrAlreadyConfirmed without touching the wallet again.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", paymentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if p.Status == domain.PaymentStatusCompleted {
			return ErrAlreadyConfirmed
		}
		if p.Status != domain.PaymentStatusPending {
			return ErrBookingNotReady
		}

		now := time.Now().UTC()
		p.Status = domain.PaymentStatusCompleted
		p.CompletedAt = &now
		p.TransactionRef = newTransactionRef(now)

		err = tx.Model(&domain.PaymentRecord{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":          p.Status,
				"completed_at":    p.CompletedAt,
				"transaction_ref": p.TransactionRef,
			}).Error
		if err != nil {
			return err
		}

		var wallet domain.ProviderWallet
		if err := getOrCreateWalletForUpdate(tx, p.ProviderID, &wallet); err != nil {
			return err
		}

		wallet.Balance = round2(wallet.Balance + p.ProviderPayout)
		wallet.TotalEarned = round2(wallet.TotalEarned + p.ProviderPayout)
		err = tx.Model(&domain.ProviderWallet{}).
			Where("id = ?", wallet.ID).
			Updates(map[string]interface{}{
				"balance":      wallet.Balance,
				"total_earned": wallet.TotalEarned,
			}).Error
		if err != nil {
			return err
		}

		txn := domain.WalletTransaction{
			WalletID:    wallet.ID,
			PaymentID:   p.ID,
			Amount:      p.ProviderPayout,
			Type:        "credit",
			Description: fmt.Sprintf("Paiement %s", p.TransactionRef),
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetByID returns the payment to either party of the settlement.
func (s *Service) GetByID(ctx context.Context, paymentID, userID uuid.UUID) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	if err := s.db.WithContext(ctx).First(&p, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.ClientID != userID && p.ProviderID != userID {
		return nil, ErrForbidden
	}
	return &p, nil
}

func (s *Service) GetClientPayments(ctx context.Context, clientID uuid.UUID) ([]domain.PaymentRecord, error) {
	var out []domain.PaymentRecord
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) GetProviderPayments(ctx context.Context, providerID uuid.UUID) ([]domain.PaymentRecord, error) {
	var out []domain.PaymentRecord
	err := s.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// GetWallet returns the provider wallet with its most recent movements,
// creating an empty wallet on first access.
func (s *Service) GetWallet(ctx context.Context, providerID uuid.UUID) (*WalletResponse, error) {
	var wallet domain.ProviderWallet
	err := s.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&wallet).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		wallet = domain.ProviderWallet{ProviderID: providerID}
		if err := s.db.WithContext(ctx).Create(&wallet).Error; err != nil {
			if !isUniqueConstraintError(err) {
				return nil, err
			}
			if err := s.db.WithContext(ctx).Where("provider_id = ?", providerID).First(&wallet).Error; err != nil {
				return nil, err
			}
		}
	}

	var txns []domain.WalletTransaction
	err = s.db.WithContext(ctx).
		Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").
		Limit(20).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	return &WalletResponse{Wallet: &wallet, Transactions: txns}, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, providerID uuid.UUID, wallet *domain.ProviderWallet) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ?", providerID).
		First(wallet).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	*wallet = domain.ProviderWallet{ProviderID: providerID}
	if err := tx.Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("provider_id = ?", providerID).
				First(wallet).Error
		}
		return err
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

func newTransactionRef(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("7OUMA-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
