package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

// ListFilter narrows an order listing.
type ListFilter struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
}

// Repository persists orders and their lines.
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

func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.conn.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// List returns a cursor-paginated page of orders, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, "", err
		}
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
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

// CountCreatedOn counts orders created on the given calendar day, used to
// build the daily sequence inside order numbers.
func (r *Repository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var count int64
	err := r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// NextOrderNumber builds the next SN-YYYYMMDD-XXXX style number for the day.
func (r *Repository) NextOrderNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	count, err := r.CountCreatedOn(ctx, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), count+1), nil
}
