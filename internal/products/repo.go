package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

// ListFilter narrows the catalog listing.
type ListFilter struct {
	BrandID    *uuid.UUID
	Search     string
	ActiveOnly bool
}

// Repository persists products.
type Repository struct {
	client *db.Client
	conn   *gorm.DB
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client, conn: client.DB()}
}

// WithTx rebinds the repository onto an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{client: r.client, conn: tx}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.conn.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, product.ID)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.conn.WithContext(ctx).
		Preload("Brand").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.conn.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, product.ID)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.conn.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// DecrementStock subtracts the sold quantity. Stock can go negative when
// concurrent checkouts race, which the back office surfaces as an oversell.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.conn.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", qty)).Error
}

// List returns a cursor-paginated page of products, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.conn.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Brand").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR reference ILIKE ?", pattern, pattern)
	}

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, "", err
		}
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	var next string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
