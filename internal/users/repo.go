package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

// Repository persists user accounts.
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

func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.conn.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.conn.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.conn.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// UpdateShippingAddress stores the last used delivery address so future
// checkouts can prefill the form.
func (r *Repository) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address types.Address) error {
	return r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("shipping_address", &address).Error
}
