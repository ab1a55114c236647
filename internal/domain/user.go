package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleProvider UserRole = "provider"
	RoleAdmin    UserRole = "admin"
)

// User is an authenticated marketplace participant. Providers additionally
// carry their registered trade and home city.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	Phone         string    `json:"phone" gorm:"size:32"`
	Role          UserRole  `json:"role" gorm:"type:varchar(16);not null;default:'client'"`
	City          string    `json:"city,omitempty" gorm:"size:100"`
	Quarter       string    `json:"quarter,omitempty" gorm:"size:100"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	IsVerified    bool      `json:"is_verified" gorm:"not null;default:false"`
	RatingAverage float64   `json:"rating_average" gorm:"default:0"`
	RatingCount   int       `json:"rating_count" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
