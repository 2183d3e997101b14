package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

// Repository encapsulates birth-list persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateList inserts a new list header.
func (r *Repository) CreateList(ctx context.Context, list *models.BirthList) (*models.BirthList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindListByID loads a list header without items.
func (r *Repository) FindListByID(ctx context.Context, listID uuid.UUID) (*models.BirthList, error) {
	var list models.BirthList
	if err := r.db.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListItems returns the items for a list, optionally restricted to the
// pending view (state = 0), ordered by priority then insertion.
func (r *Repository) ListItems(ctx context.Context, listID uuid.UUID, pendingOnly bool) ([]models.BirthListItem, error) {
	query := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("priority ASC").
		Order("created_at ASC")
	if pendingOnly {
		query = query.Where("state = ?", int(enums.ListItemStatePending))
	}

	var items []models.BirthListItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem loads one item scoped by both list id and item id.
func (r *Repository) FindItem(ctx context.Context, listID, itemID uuid.UUID) (*models.BirthListItem, error) {
	var item models.BirthListItem
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND list_id = ?", itemID, listID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceItems swaps the full item collection of a list. Delete and
// re-insert run in one transaction so a failed insert keeps the previous
// items. The bulk write is the only append path; there is no single-item
// insert endpoint.
func (r *Repository) ReplaceItems(ctx context.Context, listID uuid.UUID, items []models.BirthListItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("list_id = ?", listID).
			Delete(&models.BirthListItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// DeleteItem removes a single item; both ids must match.
func (r *Repository) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		Delete(&models.BirthListItem{})
	return result.RowsAffected, result.Error
}

// Reserve bumps the reserved counter on an item. Plain increment: the
// stored count can run past the requested quantity, matching the
// storefront's last-write-wins behavior.
func (r *Repository) Reserve(ctx context.Context, listID, itemID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.BirthListItem{}).
		Where("id = ? AND list_id = ?", itemID, listID).
		UpdateColumn("reserved", gorm.Expr("reserved + ?", qty)).Error
}

// ListLists pages through list headers, newest first.
func (r *Repository) ListLists(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]models.BirthList, string, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.BirthList{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var lists []models.BirthList
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&lists).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(lists) > normalizedLimit {
		lists = lists[:normalizedLimit]
		last := lists[len(lists)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return lists, nextCursor, nil
}

// StaleSnapshotItems returns items whose snapshot predates the given
// cutoff, joined against live products. Used by the snapshot refresh job.
func (r *Repository) StaleSnapshotItems(ctx context.Context, updatedBefore time.Time, limit int) ([]models.BirthListItem, error) {
	var items []models.BirthListItem
	if err := r.db.WithContext(ctx).
		Where("updated_at < ?", updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemSnapshot rewrites the denormalized product copy on one item.
func (r *Repository) UpdateItemSnapshot(ctx context.Context, itemID uuid.UUID, snapshot any) error {
	return r.db.WithContext(ctx).
		Model(&models.BirthListItem{}).
		Where("id = ?", itemID).
		Update("snapshot", snapshot).Error
}
