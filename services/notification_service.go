package services

import (
	"fmt"
	"log"
	"time"

	"drone-permit-api/models"

	"gorm.io/gorm"
)

// Notifier delivers a typed message to a user. Delivery is best-effort:
// implementations must not fail the caller, and callers only invoke it
// after the state change it describes has been committed.
type Notifier interface {
	Notify(n models.Notification)
}

// MailFunc sends an email. Matches config.SendMail.
type MailFunc func(to []string, subject, html string) error

type dbNotifier struct {
	db       *gorm.DB
	sendMail MailFunc
}

// NewNotifier returns a Notifier that persists the notification row and
// then tries to email the target user. sendMail may be nil to disable email.
func NewNotifier(db *gorm.DB, sendMail MailFunc) Notifier {
	return &dbNotifier{db: db, sendMail: sendMail}
}

func (dn *dbNotifier) Notify(n models.Notification) {
	if err := dn.db.Create(&n).Error; err != nil {
		log.Printf("Warning: failed to store notification for user %s: %v", n.UserID, err)
		return
	}

	if dn.sendMail == nil {
		return
	}

	var user models.User
	if err := dn.db.Where("user_id = ? AND delete_at IS NULL", n.UserID).First(&user).Error; err != nil {
		log.Printf("Warning: notification %s stored but recipient lookup failed: %v", n.NotificationID, err)
		return
	}

	html := fmt.Sprintf("<p>%s</p><p>%s</p>", n.Title, n.Message)
	if err := dn.sendMail([]string{user.Email}, n.Title, html); err != nil {
		log.Printf("Warning: notification email to %s failed: %v", user.Email, err)
		return
	}

	now := time.Now()
	if err := dn.db.Model(&models.Notification{}).
		Where("notification_id = ?", n.NotificationID).
		Updates(map[string]interface{}{
			"email_sent":    true,
			"email_sent_at": now,
		}).Error; err != nil {
		log.Printf("Warning: failed to mark notification %s as emailed: %v", n.NotificationID, err)
	}
}
