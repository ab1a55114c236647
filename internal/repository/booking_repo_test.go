package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/cicine00/7ouma/internal/domain"
)

func setupBookingRepo(t *testing.T) (*BookingRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_repo_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.BookingRequest{},
		&domain.BookingQuote{},
		&domain.BookingPhoto{},
	))
	return NewBookingRepository(db), db
}

func createPendingBooking(t *testing.T, repo *BookingRepository, clientID uuid.UUID) *domain.BookingRequest {
	t.Helper()
	b := &domain.BookingRequest{
		ClientID:        clientID,
		CategoryID:      1,
		Title:           "Fuite d'eau dans la cuisine",
		ClientLatitude:  33.5731,
		ClientLongitude: -7.5898,
		Status:          domain.BookingPending,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func addQuote(t *testing.T, repo *BookingRepository, bookingID, providerID uuid.UUID, price float64) *domain.BookingQuote {
	t.Helper()
	q := &domain.BookingQuote{
		BookingRequestID: bookingID,
		ProviderID:       providerID,
		ProposedPrice:    price,
	}
	require.NoError(t, repo.CreateQuote(context.Background(), q))
	return q
}

func TestAcceptQuote_RejectsOthersAndAdvancesStatus(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)

	winner := addQuote(t, repo, b.ID, uuid.New(), 150)
	loser1 := addQuote(t, repo, b.ID, uuid.New(), 200)
	loser2 := addQuote(t, repo, b.ID, uuid.New(), 180)

	require.NoError(t, repo.AcceptQuote(ctx, b.ID, winner.ID, clientID))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, got.Status)

	accepted := got.AcceptedQuote()
	require.NotNil(t, accepted)
	assert.Equal(t, winner.ID, accepted.ID)
	assert.False(t, accepted.IsRejected)

	for _, q := range got.Quotes {
		if q.ID == loser1.ID || q.ID == loser2.ID {
			assert.True(t, q.IsRejected, "non-winning quote %s must be rejected", q.ID)
			assert.False(t, q.IsAccepted)
		}
	}
}

func TestAcceptQuote_SecondAcceptFails(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)
	first := addQuote(t, repo, b.ID, uuid.New(), 100)
	second := addQuote(t, repo, b.ID, uuid.New(), 90)

	require.NoError(t, repo.AcceptQuote(ctx, b.ID, first.ID, clientID))

	err := repo.AcceptQuote(ctx, b.ID, second.ID, clientID)
	assert.ErrorIs(t, err, ErrStatusConflict)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	accepted := got.AcceptedQuote()
	require.NotNil(t, accepted)
	assert.Equal(t, first.ID, accepted.ID, "first accept must stand")
}

func TestAcceptQuote_ConcurrentAcceptsOnlyOneWins(t *testing.T) {
	repo, db := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)
	q1 := addQuote(t, repo, b.ID, uuid.New(), 100)
	q2 := addQuote(t, repo, b.ID, uuid.New(), 90)

	errs := make(chan error, 2)
	for _, quoteID := range []uuid.UUID{q1.ID, q2.ID} {
		go func(id uuid.UUID) {
			errs <- repo.AcceptQuote(ctx, b.ID, id, clientID)
		}(quoteID)
	}

	var succeeded, conflicted int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, ErrStatusConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one accept must win")
	assert.Equal(t, 1, conflicted, "the other must see the status conflict")

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, got.Status)

	var acceptedCount int64
	require.NoError(t, db.Model(&domain.BookingQuote{}).
		Where("booking_request_id = ? AND is_accepted = ?", b.ID, true).
		Count(&acceptedCount).Error)
	assert.EqualValues(t, 1, acceptedCount)
}

func TestAcceptQuote_WrongClientNotFound(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	b := createPendingBooking(t, repo, uuid.New())
	q := addQuote(t, repo, b.ID, uuid.New(), 100)

	err := repo.AcceptQuote(ctx, b.ID, q.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateQuote_RejectedAfterAccept(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)
	q := addQuote(t, repo, b.ID, uuid.New(), 100)
	require.NoError(t, repo.AcceptQuote(ctx, b.ID, q.ID, clientID))

	late := &domain.BookingQuote{
		BookingRequestID: b.ID,
		ProviderID:       uuid.New(),
		ProposedPrice:    80,
	}
	assert.ErrorIs(t, repo.CreateQuote(ctx, late), ErrStatusConflict)
}

func TestLifecycle_AcceptStartComplete(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)
	q := addQuote(t, repo, b.ID, uuid.New(), 120)

	require.NoError(t, repo.AcceptQuote(ctx, b.ID, q.ID, clientID))
	require.NoError(t, repo.Start(ctx, b.ID))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingInProgress, got.Status)

	require.NoError(t, repo.Complete(ctx, b.ID))

	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestStart_RequiresAcceptedStatus(t *testing.T) {
	repo, _ := setupBookingRepo(t)

	b := createPendingBooking(t, repo, uuid.New())
	assert.ErrorIs(t, repo.Start(context.Background(), b.ID), ErrStatusConflict)
}

func TestComplete_DirectlyFromAccepted(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b := createPendingBooking(t, repo, clientID)
	q := addQuote(t, repo, b.ID, uuid.New(), 100)
	require.NoError(t, repo.AcceptQuote(ctx, b.ID, q.ID, clientID))

	// Cash jobs often skip the in-progress step.
	require.NoError(t, repo.Complete(ctx, b.ID))
}

func TestCancel_PersistsReasonAndBlocksTerminal(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	b := createPendingBooking(t, repo, uuid.New())
	require.NoError(t, repo.Cancel(ctx, b.ID, "Le client a trouvé une autre solution"))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Equal(t, "Le client a trouvé une autre solution", got.CancelReason)

	assert.ErrorIs(t, repo.Cancel(ctx, b.ID, "encore"), ErrStatusConflict)
	assert.ErrorIs(t, repo.Complete(ctx, b.ID), ErrStatusConflict)
}

func TestGetByClient_StatusFilter(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	b1 := createPendingBooking(t, repo, clientID)
	createPendingBooking(t, repo, clientID)
	require.NoError(t, repo.Cancel(ctx, b1.ID, ""))

	all, err := repo.GetByClient(ctx, clientID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled := domain.BookingCancelled
	filtered, err := repo.GetByClient(ctx, clientID, &cancelled)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, b1.ID, filtered[0].ID)
}

func TestGetByProviderAccepted_OnlyConfirmedJobs(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	providerID := uuid.New()
	clientID := uuid.New()

	won := createPendingBooking(t, repo, clientID)
	wonQuote := addQuote(t, repo, won.ID, providerID, 100)
	require.NoError(t, repo.AcceptQuote(ctx, won.ID, wonQuote.ID, clientID))

	// Provider also bid on a booking still pending.
	pending := createPendingBooking(t, repo, clientID)
	addQuote(t, repo, pending.ID, providerID, 150)

	jobs, err := repo.GetByProviderAccepted(ctx, providerID, nil)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, won.ID, jobs[0].ID)
}

func TestGetPending_ExcludesOtherStatuses(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	clientID := uuid.New()
	stays := createPendingBooking(t, repo, clientID)
	gone := createPendingBooking(t, repo, clientID)
	require.NoError(t, repo.Cancel(ctx, gone.ID, ""))

	pending, err := repo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, stays.ID, pending[0].ID)
}

func TestDeleteBookingCascadesQuotesAndPhotos(t *testing.T) {
	repo, db := setupBookingRepo(t)
	ctx := context.Background()

	b := &domain.BookingRequest{
		ClientID:   uuid.New(),
		CategoryID: 1,
		Title:      "test",
		Status:     domain.BookingPending,
		Photos:     []domain.BookingPhoto{{URL: "https://cdn.example.com/a.jpg"}},
	}
	require.NoError(t, repo.Create(ctx, b))
	addQuote(t, repo, b.ID, uuid.New(), 100)

	require.NoError(t, db.Select("Quotes", "Photos").Delete(&domain.BookingRequest{ID: b.ID}).Error)

	var quoteCount, photoCount int64
	require.NoError(t, db.Model(&domain.BookingQuote{}).Where("booking_request_id = ?", b.ID).Count(&quoteCount).Error)
	require.NoError(t, db.Model(&domain.BookingPhoto{}).Where("booking_request_id = ?", b.ID).Count(&photoCount).Error)
	assert.Zero(t, quoteCount)
	assert.Zero(t, photoCount)
}
