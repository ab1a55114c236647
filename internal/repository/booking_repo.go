package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cicine00/7ouma/internal/domain"
)

// ErrStatusConflict is returned when a write finds the booking in a status
// that does not admit the requested transition. The transaction re-checks the
// status under a row lock, so callers can trust the verdict even under
// concurrent writers.
var ErrStatusConflict = errors.New("booking status conflict")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.BookingRequest) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingRequest, error) {
	var b domain.BookingRequest
	err := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Photos").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByClient(ctx context.Context, clientID uuid.UUID, status *domain.BookingStatus) ([]domain.BookingRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Photos").
		Where("client_id = ?", clientID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var out []domain.BookingRequest
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByProviderAccepted lists bookings on which the provider holds the
// accepted quote — confirmed jobs, not pending bids.
func (r *BookingRepository) GetByProviderAccepted(ctx context.Context, providerID uuid.UUID, status *domain.BookingStatus) ([]domain.BookingRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Photos").
		Where("id IN (?)", r.db.Model(&domain.BookingQuote{}).
			Select("booking_request_id").
			Where("provider_id = ? AND is_accepted = ?", providerID, true))
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var out []domain.BookingRequest
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) GetPending(ctx context.Context) ([]domain.BookingRequest, error) {
	var out []domain.BookingRequest
	err := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Photos").
		Where("status = ?", domain.BookingPending).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuote appends a quote to a pending booking. The parent row is locked
// for the duration of the insert so a quote cannot slip in between a
// concurrent accept's status check and its commit.
func (r *BookingRepository) CreateQuote(ctx context.Context, quote *domain.BookingQuote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.BookingRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", quote.BookingRequestID).Error; err != nil {
			return err
		}
		if b.Status != domain.BookingPending {
			return ErrStatusConflict
		}
		return tx.Create(quote).Error
	})
}

// AcceptQuote marks one quote accepted, rejects every other quote and
// advances the booking to accepted — all in one transaction. The booking row
// is locked first, so two concurrent accepts serialize and the loser sees a
// non-pending status.
func (r *BookingRepository) AcceptQuote(ctx context.Context, bookingID, quoteID, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.BookingRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ? AND client_id = ?", bookingID, clientID).Error; err != nil {
			return err
		}
		if b.Status != domain.BookingPending {
			return ErrStatusConflict
		}

		var quote domain.BookingQuote
		if err := tx.First(&quote, "id = ? AND booking_request_id = ?", quoteID, bookingID).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.BookingQuote{}).
			Where("id = ?", quoteID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.BookingQuote{}).
			Where("booking_request_id = ? AND id <> ?", bookingID, quoteID).
			Update("is_rejected", true).Error; err != nil {
			return err
		}

		return tx.Model(&domain.BookingRequest{}).
			Where("id = ?", bookingID).
			Update("status", domain.BookingAccepted).Error
	})
}

// Start moves an accepted booking to in_progress.
func (r *BookingRepository) Start(ctx context.Context, bookingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.BookingRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if b.Status != domain.BookingAccepted {
			return ErrStatusConflict
		}
		return tx.Model(&domain.BookingRequest{}).
			Where("id = ?", bookingID).
			Update("status", domain.BookingInProgress).Error
	})
}

// Cancel moves a non-terminal booking to cancelled and records the reason.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.BookingRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return ErrStatusConflict
		}
		return tx.Model(&domain.BookingRequest{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":        domain.BookingCancelled,
				"cancel_reason": reason,
			}).Error
	})
}

// Complete finishes an accepted or in-progress booking and stamps the
// completion time.
func (r *BookingRepository) Complete(ctx context.Context, bookingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.BookingRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if b.Status != domain.BookingAccepted && b.Status != domain.BookingInProgress {
			return ErrStatusConflict
		}
		now := time.Now().UTC()
		return tx.Model(&domain.BookingRequest{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       domain.BookingCompleted,
				"completed_at": &now,
			}).Error
	})
}
