package booking

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cicine00/7ouma/internal/domain"
	"github.com/cicine00/7ouma/internal/pkg/geo"
	"github.com/cicine00/7ouma/internal/repository"
)

// nearbyRadiusKm bounds the pending-request feed shown to providers.
const nearbyRadiusKm = 10.0

type Service struct {
	repo     BookingRepository
	users    UserReader
	notifier StatusNotifier
}

func NewService(repo BookingRepository, users UserReader, notifier StatusNotifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

func (s *Service) CreateRequest(ctx context.Context, clientID uuid.UUID, req CreateBookingRequest) (*domain.BookingRequest, error) {
	if req.ClientLatitude < -90 || req.ClientLatitude > 90 ||
		req.ClientLongitude < -180 || req.ClientLongitude > 180 {
		return nil, ErrValidation
	}

	payment := domain.PaymentMethod(req.PreferredPayment)
	if payment == "" {
		payment = domain.PaymentCash
	}
	if payment != domain.PaymentCash && payment != domain.PaymentOnline {
		return nil, ErrValidation
	}

	b := &domain.BookingRequest{
		ClientID:         clientID,
		CategoryID:       req.CategoryID,
		Title:            req.Title,
		Description:      req.Description,
		ClientLatitude:   req.ClientLatitude,
		ClientLongitude:  req.ClientLongitude,
		ClientAddress:    req.ClientAddress,
		ClientQuarter:    req.ClientQuarter,
		IsUrgent:         req.IsUrgent,
		PreferredPayment: payment,
		Status:           domain.BookingPending,
		ScheduledAt:      req.ScheduledAt,
	}
	for _, url := range req.Photos {
		if url == "" {
			continue
		}
		b.Photos = append(b.Photos, domain.BookingPhoto{URL: url})
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns the booking to its owner or to any provider who has quoted
// on it. Everyone else gets ErrUnauthorized.
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.BookingRequest, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if b.ClientID == userID {
		return b, nil
	}
	for _, q := range b.Quotes {
		if q.ProviderID == userID {
			return b, nil
		}
	}
	return nil, ErrUnauthorized
}

func (s *Service) GetClientBookings(ctx context.Context, clientID uuid.UUID, statusFilter string) ([]domain.BookingRequest, error) {
	return s.repo.GetByClient(ctx, clientID, parseFilter(statusFilter))
}

func (s *Service) GetProviderBookings(ctx context.Context, providerID uuid.UUID, statusFilter string) ([]domain.BookingRequest, error) {
	return s.repo.GetByProviderAccepted(ctx, providerID, parseFilter(statusFilter))
}

// GetNearbyRequests lists pending bookings within 10 km of the provider,
// nearest first.
func (s *Service) GetNearbyRequests(ctx context.Context, lat, lng float64) ([]NearbyBooking, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrValidation
	}

	pending, err := s.repo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]NearbyBooking, 0, len(pending))
	for _, b := range pending {
		d := geo.DistanceKm(lat, lng, b.ClientLatitude, b.ClientLongitude)
		if d > nearbyRadiusKm {
			continue
		}
		out = append(out, NearbyBooking{BookingRequest: b, DistanceKm: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

func (s *Service) SubmitQuote(ctx context.Context, bookingID, providerID uuid.UUID, req SubmitQuoteRequest) (*domain.BookingQuote, error) {
	if req.ProposedPrice <= 0 || req.EstimatedArrivalMinutes < 0 {
		return nil, ErrValidation
	}

	if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
		return nil, mapRepoError(err)
	}

	// Denormalized on the quote so listings need no join.
	providerName := ""
	if provider, err := s.users.GetByID(ctx, providerID); err == nil {
		providerName = provider.Name
	}

	q := &domain.BookingQuote{
		BookingRequestID:        bookingID,
		ProviderID:              providerID,
		ProviderName:            providerName,
		ProposedPrice:           math.Round(req.ProposedPrice*100) / 100,
		Note:                    req.Note,
		EstimatedArrivalMinutes: req.EstimatedArrivalMinutes,
	}
	if err := s.repo.CreateQuote(ctx, q); err != nil {
		return nil, mapRepoError(err)
	}
	return q, nil
}

// AcceptQuote selects one quote and rejects the rest. The repository performs
// the status check under a row lock so concurrent accepts cannot both win.
func (s *Service) AcceptQuote(ctx context.Context, bookingID, quoteID, clientID uuid.UUID) error {
	if err := s.repo.AcceptQuote(ctx, bookingID, quoteID, clientID); err != nil {
		return mapRepoError(err)
	}
	s.notify(bookingID, domain.BookingAccepted)
	return nil
}

// Start moves an accepted booking to in_progress. Only the provider whose
// quote was accepted may start the work.
func (s *Service) Start(ctx context.Context, bookingID, providerID uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return mapRepoError(err)
	}
	accepted := b.AcceptedQuote()
	if accepted == nil || accepted.ProviderID != providerID {
		return ErrUnauthorized
	}
	if err := s.repo.Start(ctx, bookingID); err != nil {
		return mapRepoError(err)
	}
	s.notify(bookingID, domain.BookingInProgress)
	return nil
}

func (s *Service) Cancel(ctx context.Context, bookingID, clientID uuid.UUID, reason string) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return mapRepoError(err)
	}
	if b.ClientID != clientID {
		return ErrUnauthorized
	}
	if err := s.repo.Cancel(ctx, bookingID, reason); err != nil {
		return mapRepoError(err)
	}
	s.notify(bookingID, domain.BookingCancelled)
	return nil
}

func (s *Service) Complete(ctx context.Context, bookingID, clientID uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return mapRepoError(err)
	}
	if b.ClientID != clientID {
		return ErrUnauthorized
	}
	if err := s.repo.Complete(ctx, bookingID); err != nil {
		return mapRepoError(err)
	}
	s.notify(bookingID, domain.BookingCompleted)
	return nil
}

func (s *Service) notify(bookingID uuid.UUID, status domain.BookingStatus) {
	if s.notifier != nil {
		s.notifier.NotifyStatusChanged(bookingID, status)
	}
}

// parseFilter turns a raw query value into a status filter; unknown values
// mean "no filter" rather than an empty result.
func parseFilter(raw string) *domain.BookingStatus {
	if raw == "" {
		return nil
	}
	st, ok := domain.ParseBookingStatus(raw)
	if !ok {
		return nil
	}
	return &st
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		return ErrInvalidState
	default:
		return err
	}
}
