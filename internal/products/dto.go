package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
)

// ProductDTO is the catalog row served to the storefront and back office.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	BrandID     *uuid.UUID      `json:"brand_id,omitempty"`
	BrandName   string          `json:"brand_name,omitempty"`
	Name        string          `json:"name"`
	Reference   string          `json:"reference"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PageDTO is a cursor-paginated page of products.
type PageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateInput carries the fields of a new product. Price arrives as a raw
// display string and is normalized before storage.
type CreateInput struct {
	BrandID     *uuid.UUID `json:"brand_id" validate:"omitempty"`
	Name        string     `json:"name" validate:"required,min=2,max=200"`
	Reference   string     `json:"reference" validate:"required,min=2,max=64"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	Price       string     `json:"price" validate:"required"`
	Stock       int        `json:"stock" validate:"gte=0"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateInput carries a partial product update. Nil fields are untouched.
type UpdateInput struct {
	BrandID     *uuid.UUID `json:"brand_id"`
	Name        *string    `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	Price       *string    `json:"price"`
	Stock       *int       `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool      `json:"is_active"`
}

func toDTO(product models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          product.ID,
		BrandID:     product.BrandID,
		Name:        product.Name,
		Reference:   product.Reference,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Brand != nil {
		dto.BrandName = product.Brand.Name
	}
	return dto
}
