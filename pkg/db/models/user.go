package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// User is a storefront account. ShippingAddress is the last address the
// user checked out with, kept for form autofill.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string         `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	Name            string         `gorm:"column:name;not null"`
	LastName        string         `gorm:"column:last_name"`
	Phone           *string        `gorm:"column:phone"`
	Role            enums.UserRole `gorm:"column:role;not null;default:customer"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
