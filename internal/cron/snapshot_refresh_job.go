package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

const snapshotRefreshBatch = 200

type snapshotStore interface {
	StaleSnapshotItems(ctx context.Context, updatedBefore time.Time, limit int) ([]models.BirthListItem, error)
	UpdateItemSnapshot(ctx context.Context, itemID uuid.UUID, snapshot any) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// SnapshotRefreshJob re-denormalizes birth-list item snapshots so renamed
// or repriced products show up correctly on old lists.
type SnapshotRefreshJob struct {
	items    snapshotStore
	products productReader
	maxAge   time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

func NewSnapshotRefreshJob(items snapshotStore, products productReader, maxAge time.Duration, logg *logger.Logger) (*SnapshotRefreshJob, error) {
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reader is required")
	}
	if maxAge <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max age must be positive")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &SnapshotRefreshJob{items: items, products: products, maxAge: maxAge, logg: logg, now: time.Now}, nil
}

func (j *SnapshotRefreshJob) Name() string { return "snapshot-refresh" }

func (j *SnapshotRefreshJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.maxAge)
	items, err := j.items.StaleSnapshotItems(ctx, cutoff, snapshotRefreshBatch)
	if err != nil {
		return fmt.Errorf("load stale items: %w", err)
	}

	refreshed := 0
	for _, item := range items {
		product, err := j.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product deleted; keep the last known snapshot.
				continue
			}
			return fmt.Errorf("load product %s: %w", item.ProductID, err)
		}

		snapshot := registry.SnapshotFromProduct(product)
		if snapshot == item.Snapshot {
			continue
		}
		if err := j.items.UpdateItemSnapshot(ctx, item.ID, snapshot); err != nil {
			return fmt.Errorf("update snapshot %s: %w", item.ID, err)
		}
		refreshed++
	}

	j.logg.Info(j.logg.WithField(ctx, "refreshed", refreshed), "snapshot refresh done")
	return nil
}
