package brands

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
)

// Repository persists brands.
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

func (r *Repository) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.conn.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.conn.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.conn.WithContext(ctx).First(&brand, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) Update(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.conn.WithContext(ctx).Save(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.conn.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// List returns every brand ordered by name. The catalog is small enough
// that the back office consumes it unpaginated.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	query := r.conn.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Brand
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
