package cron

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

type notificationPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanupJob prunes delivered notification rows past the
// retention window.
type NotificationCleanupJob struct {
	repo      notificationPruner
	retention time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

func NewNotificationCleanupJob(repo notificationPruner, retention time.Duration, logg *logger.Logger) (*NotificationCleanupJob, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	if retention <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &NotificationCleanupJob{repo: repo, retention: retention, logg: logg, now: time.Now}, nil
}

func (j *NotificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *NotificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	removed, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune notifications: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "removed", removed), "notification cleanup done")
	return nil
}
