package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
)

// Notification is an outbound customer message (receipt emails and the
// like). Delivery is fire-and-forget; rows are pruned by the cron worker.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID             `gorm:"column:user_id;type:uuid;index:notifications_user_id_idx"`
	Email     string                 `gorm:"column:email;not null"`
	Kind      enums.NotificationKind `gorm:"column:kind;not null"`
	Subject   string                 `gorm:"column:subject;not null"`
	Body      string                 `gorm:"column:body;not null"`
	SentAt    *time.Time             `gorm:"column:sent_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
