package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений.
const (
	NotificationTypeMatch        = "match"
	NotificationTypeClaim        = "claim"
	NotificationTypeMessage      = "message"
	NotificationTypeSystem       = "system"
	NotificationTypeReward       = "reward"
	NotificationTypeVerification = "verification"
)

// Приоритеты уведомлений.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityMedium = "medium"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// Notification — уведомление пользователя о событии в сервисе.
type Notification struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Type        string          `db:"type" json:"type"`
	Title       string          `db:"title" json:"title"`
	Message     string          `db:"message" json:"message"`
	Data        json.RawMessage `db:"data" json:"data,omitempty"`
	RelatedItem *uuid.UUID      `db:"related_item" json:"related_item,omitempty"`
	RelatedUser *uuid.UUID      `db:"related_user" json:"related_user,omitempty"`
	IsRead      bool            `db:"is_read" json:"is_read"`
	Priority    string          `db:"priority" json:"priority"`
	ExpiresAt   *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
