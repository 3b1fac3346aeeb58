package storage

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/myiephero/matchengine/metrics"
	"github.com/myiephero/matchengine/models"
)

// NotificationDispatcher writes notification rows for later delivery by the
// external push/email channel. Strictly fire-and-forget: an insert failure is
// logged and counted, never returned, so a broken notifications table can't
// fail or roll back a proposal transition.
type NotificationDispatcher struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewNotificationDispatcher(db *gorm.DB, m *metrics.Metrics, log *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{db: db, metrics: m, log: log}
}

func (d *NotificationDispatcher) Send(ctx context.Context, userID, title, message, proposalID string) {
	n := models.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		Message:    message,
		ProposalID: proposalID,
	}
	if err := d.db.WithContext(ctx).Create(&n).Error; err != nil {
		d.metrics.NotificationFailure()
		d.log.Warn("notification insert failed",
			zap.String("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
	}
}
