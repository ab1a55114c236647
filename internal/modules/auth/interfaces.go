package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type jwtService interface {
	GenerateToken(userID uuid.UUID, role string) (string, error)
}
