package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Price is the tax-inclusive shelf price.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID     *uuid.UUID      `gorm:"column:brand_id;type:uuid;index:products_brand_id_idx"`
	Brand       *Brand          `gorm:"foreignKey:BrandID"`
	Name        string          `gorm:"column:name;not null"`
	Reference   string          `gorm:"column:reference;not null;uniqueIndex:products_reference_key"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	ImageURL    *string         `gorm:"column:image_url"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
