package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
	"github.com/cicine00/7ouma/internal/pkg/geo"
	"github.com/cicine00/7ouma/internal/repository"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrBadInput  = errors.New("invalid input")
)

const (
	defaultPerPage = 20
	maxPerPage     = 50
)

type Service struct {
	offerRepo *repository.OfferRepository
}

func NewService(offerRepo *repository.OfferRepository) *Service {
	return &Service{offerRepo: offerRepo}
}

func (s *Service) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return s.offerRepo.GetActiveCategories(ctx)
}

/* ---------- OFFERS ---------- */

func (s *Service) CreateOffer(ctx context.Context, providerID uuid.UUID, req CreateOfferRequest) (*domain.ServiceOffer, error) {
	if req.BasePrice <= 0 || (req.MaxPrice > 0 && req.MaxPrice < req.BasePrice) {
		return nil, ErrBadInput
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = 10
	}

	offer := &domain.ServiceOffer{
		ProviderID:         providerID,
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		BasePrice:          req.BasePrice,
		MaxPrice:           req.MaxPrice,
		City:               req.City,
		Quarter:            req.Quarter,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		RadiusKm:           radius,
		IsAvailable:        true,
		IsUrgencyAvailable: req.IsUrgencyAvailable,
	}
	for _, url := range req.Images {
		if url == "" {
			continue
		}
		offer.Images = append(offer.Images, domain.OfferImage{URL: url})
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *Service) UpdateOffer(ctx context.Context, providerID, offerID uuid.UUID, req UpdateOfferRequest) (*domain.ServiceOffer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	// Check ownership
	if offer.ProviderID != providerID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.BasePrice != nil && *req.BasePrice > 0 {
		offer.BasePrice = *req.BasePrice
	}
	if req.MaxPrice != nil && *req.MaxPrice >= 0 {
		offer.MaxPrice = *req.MaxPrice
	}
	if req.Quarter != nil {
		offer.Quarter = *req.Quarter
	}
	if req.RadiusKm != nil && *req.RadiusKm > 0 {
		offer.RadiusKm = *req.RadiusKm
	}
	if req.IsAvailable != nil {
		offer.IsAvailable = *req.IsAvailable
	}
	if req.IsUrgencyAvailable != nil {
		offer.IsUrgencyAvailable = *req.IsUrgencyAvailable
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *Service) GetOffer(ctx context.Context, offerID uuid.UUID) (*domain.ServiceOffer, error) {
	return s.offerRepo.GetByID(ctx, offerID)
}

func (s *Service) GetProviderOffers(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceOffer, error) {
	return s.offerRepo.GetByProvider(ctx, providerID)
}

/* ---------- SEARCH ---------- */

// SearchNearby returns available offers whose service radius covers the
// client's position, nearest first. Distance math runs in memory over the
// filtered scan.
func (s *Service) SearchNearby(ctx context.Context, req SearchRequest) ([]OfferResult, int, error) {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return nil, 0, ErrBadInput
	}

	filter := repository.SearchFilter{
		CategoryID:  req.CategoryID,
		UrgencyOnly: req.UrgencyOnly,
		Query:       req.Query,
	}
	if req.MaxPrice > 0 {
		filter.MaxPrice = &req.MaxPrice
	}

	offers, err := s.offerRepo.GetAvailable(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	results := make([]OfferResult, 0, len(offers))
	for _, o := range offers {
		d := geo.DistanceKm(req.Latitude, req.Longitude, o.Latitude, o.Longitude)
		if d > o.RadiusKm {
			continue
		}
		results = append(results, OfferResult{ServiceOffer: o, DistanceKm: d})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DistanceKm < results[j].DistanceKm })

	total := len(results)

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= total {
		return []OfferResult{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return results[start:end], total, nil
}

func (s *Service) GetPriceReferences(ctx context.Context, categoryID int64, city string) ([]domain.PriceReference, error) {
	if categoryID <= 0 {
		return nil, ErrBadInput
	}
	return s.offerRepo.GetPriceReferences(ctx, categoryID, city)
}
