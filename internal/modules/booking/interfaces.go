package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
)

// BookingRepository defines the persistence operations the lifecycle engine
// relies on. Transition writes (CreateQuote, AcceptQuote, Start, Cancel,
// Complete) re-check the booking status atomically and report conflicts as
// repository.ErrStatusConflict.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingRequest, error)
	GetByClient(ctx context.Context, clientID uuid.UUID, status *domain.BookingStatus) ([]domain.BookingRequest, error)
	GetByProviderAccepted(ctx context.Context, providerID uuid.UUID, status *domain.BookingStatus) ([]domain.BookingRequest, error)
	GetPending(ctx context.Context) ([]domain.BookingRequest, error)
	CreateQuote(ctx context.Context, quote *domain.BookingQuote) error
	AcceptQuote(ctx context.Context, bookingID, quoteID, clientID uuid.UUID) error
	Start(ctx context.Context, bookingID uuid.UUID) error
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error
	Complete(ctx context.Context, bookingID uuid.UUID) error
}

// UserReader resolves user records owned by another module.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// StatusNotifier pushes booking status changes to live watchers. Delivery is
// best-effort; the engine never fails an operation over a notification.
type StatusNotifier interface {
	NotifyStatusChanged(bookingID uuid.UUID, status domain.BookingStatus)
}
