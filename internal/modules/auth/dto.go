package auth

import (
	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
)

type RegisterClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	City     string `json:"city"`
	Quarter  string `json:"quarter"`
}

type RegisterProviderRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	City       string `json:"city" binding:"required"`
	Quarter    string `json:"quarter"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID      uuid.UUID       `json:"id"`
	Role    domain.UserRole `json:"role"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone,omitempty"`
	City    string          `json:"city,omitempty"`
	Quarter string          `json:"quarter,omitempty"`
}

func ToUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:      u.ID,
		Role:    u.Role,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		City:    u.City,
		Quarter: u.Quarter,
	}
}
