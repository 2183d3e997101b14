package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
)

// Repository persists outbound notifications.
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

func (r *Repository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	if err := r.conn.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.conn.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// DeleteOlderThan prunes notification rows past the retention window and
// returns how many were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.conn.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
