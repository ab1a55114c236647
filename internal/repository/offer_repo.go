package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cicine00/7ouma/internal/domain"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.ServiceOffer) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.ServiceOffer) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceOffer, error) {
	var o domain.ServiceOffer
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepository) GetByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceOffer, error) {
	var out []domain.ServiceOffer
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SearchFilter narrows the available-offer scan; distance filtering happens
// in the service because the store has no geo index.
type SearchFilter struct {
	CategoryID  int64
	UrgencyOnly bool
	MaxPrice    *float64
	Query       string
}

func (r *OfferRepository) GetAvailable(ctx context.Context, f SearchFilter) ([]domain.ServiceOffer, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("is_available = ?", true)

	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.UrgencyOnly {
		q = q.Where("is_urgency_available = ?", true)
	}
	if f.MaxPrice != nil {
		q = q.Where("base_price <= ?", *f.MaxPrice)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var out []domain.ServiceOffer
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OfferRepository) GetActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OfferRepository) GetPriceReferences(ctx context.Context, categoryID int64, city string) ([]domain.PriceReference, error) {
	q := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	if city != "" {
		q = q.Where("city LIKE ?", "%"+city+"%")
	}

	var out []domain.PriceReference
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
