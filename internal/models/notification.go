package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies what caused a notification.
type NotificationType string

const (
	NotificationAlert     NotificationType = "ALERT"      // budget threshold breaches
	NotificationGroupDebt NotificationType = "GROUP_DEBT" // debts from split group expenses
	NotificationSystem    NotificationType = "SYSTEM"     // lifecycle events, e.g. budget expiry
)

// NotificationRetention is how long notifications are kept before the
// retention sweep deletes them, read or not.
const NotificationRetention = 30 * 24 * time.Hour

// Notification is a message for a user. It is created by the reconciliation
// engine and the group flows, mutated only by marking it read, and deleted
// by the retention sweep.
type Notification struct {
	DefaultModel
	UserID  uuid.UUID
	User    User             `json:"-"`
	Type    NotificationType `gorm:"default:ALERT"`
	Message string
	IsRead  bool `gorm:"default:false"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	_ = n.DefaultModel.BeforeCreate(tx)

	if n.Type == "" {
		n.Type = NotificationAlert
	}

	return nil
}

// CreateUnlessUnread inserts the notification unless an unread notification
// with byte-identical message text already exists for the same user. It
// reports whether a row was inserted.
//
// This is the dedup rule for all engine-generated notifications: at most one
// unread notification with a given exact message per user. It is a
// read-then-write without a unique constraint, so two concurrent checks for
// the same user can both insert; that race is accepted as best-effort.
func CreateUnlessUnread(db *gorm.DB, n *Notification) (bool, error) {
	var count int64

	err := db.Model(&Notification{}).
		Where("user_id = ? AND message = ? AND is_read = ?", n.UserID, n.Message, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	err = db.Create(n).Error
	if err != nil {
		return false, err
	}

	return true, nil
}
