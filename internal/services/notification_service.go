package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/applyos/applyos/internal/models"
	"google.golang.org/api/gmail/v1"
	"gorm.io/gorm"
)

// Read notifications older than this are swept away.
const staleAfter = 30 * 24 * time.Hour

type NotificationService struct {
	DB          *gorm.DB
	GmailClient *gmail.Service
	Interval    time.Duration
	Lookahead   time.Duration

	// RecipientEmail is where reminder mails go. Empty disables delivery
	// even when a Gmail client is present.
	RecipientEmail string
}

func NewNotificationService(db *gorm.DB, gmailSvc *gmail.Service, interval, lookahead time.Duration) *NotificationService {
	return &NotificationService{
		DB:          db,
		GmailClient: gmailSvc,
		Interval:    interval,
		Lookahead:   lookahead,
	}
}

// StartSweeper starts the background reminder sweep.
func (s *NotificationService) StartSweeper() {
	if s.Interval <= 0 {
		s.Interval = time.Hour
	}
	ticker := time.NewTicker(s.Interval)

	// Run immediately on startup
	go s.Sweep()

	go func() {
		for range ticker.C {
			s.Sweep()
		}
	}()
}

// Sweep is one reminder cycle: create due deadline reminders, deliver the
// undelivered ones, drop stale read notifications.
func (s *NotificationService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("🔔 Reminder sweep: starting cycle...")

	created, err := s.createDeadlineReminders()
	if err != nil {
		log.Printf("❌ Reminder sweep failed: %v", err)
		return
	}
	if created > 0 {
		log.Printf("🔔 Created %d deadline reminders", created)
	}

	s.deliverPending(ctx)

	if n := s.cleanupStale(); n > 0 {
		log.Printf("🧹 Removed %d stale notifications", n)
	}
}

// createDeadlineReminders creates one reminder per (application, deadline day)
// for unsubmitted applications whose deadline falls inside the lookahead
// window. The dedup key makes repeat sweeps a no-op.
func (s *NotificationService) createDeadlineReminders() (int, error) {
	now := time.Now()
	horizon := now.Add(s.Lookahead)

	var apps []models.Application
	err := s.DB.
		Where("deadline IS NOT NULL AND deadline > ? AND deadline <= ?", now, horizon).
		Where("status IN ?", []string{models.StatusDraft, models.StatusSubmitted}).
		Find(&apps).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for _, app := range apps {
		dedup := fmt.Sprintf("deadline:%d:%s", app.ID, app.Deadline.Format("2006-01-02"))

		var count int64
		s.DB.Model(&models.Notification{}).Where("dedup_key = ?", dedup).Count(&count)
		if count > 0 {
			continue // Already reminded, skip
		}

		days := int(time.Until(*app.Deadline).Hours() / 24)
		notif := models.Notification{
			ApplicationID: app.ID,
			Kind:          models.NotifyDeadline,
			Title:         fmt.Sprintf("%s — %s deadline in %d day(s)", app.Company, app.Role, days),
			Body:          fmt.Sprintf("The application deadline is %s.", app.Deadline.Format("Mon, 02 Jan 2006")),
			DedupKey:      dedup,
			ScheduledAt:   app.Deadline,
		}
		if err := s.DB.Create(&notif).Error; err != nil {
			log.Printf("⚠️ Failed to create reminder for application %d: %v", app.ID, err)
			continue
		}
		created++
	}
	return created, nil
}

// deliverPending emails unsent reminders when a Gmail client is configured.
// Without one the notifications stay in-app only, which is fine.
func (s *NotificationService) deliverPending(ctx context.Context) {
	if s.GmailClient == nil || s.RecipientEmail == "" {
		return
	}

	var pending []models.Notification
	if err := s.DB.Where("sent_at IS NULL AND kind = ?", models.NotifyDeadline).Find(&pending).Error; err != nil {
		log.Printf("⚠️ Failed to load pending notifications: %v", err)
		return
	}

	for i := range pending {
		n := &pending[i]
		err := retry(3, 1*time.Second, func() error {
			return s.sendEmail(ctx, n.Title, n.Body)
		})
		if err != nil {
			log.Printf("⚠️ Email delivery failed for notification %d: %v", n.ID, err)
			continue
		}
		now := time.Now()
		s.DB.Model(n).Update("sent_at", now)
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.RecipientEmail, subject, body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	_, err := s.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
	return err
}

// cleanupStale hard-deletes read notifications older than the retention window.
func (s *NotificationService) cleanupStale() int64 {
	cutoff := time.Now().Add(-staleAfter)
	res := s.DB.Where("read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	if res.Error != nil {
		log.Printf("⚠️ Stale notification cleanup failed: %v", res.Error)
		return 0
	}
	return res.RowsAffected
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	db := s.DB.Order("created_at DESC")
	if unreadOnly {
		db = db.Where("read = ?", false)
	}
	var out []models.Notification
	err := db.Find(&out).Error
	return out, err
}

func (s *NotificationService) MarkRead(id uint) error {
	res := s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// retry executes a function with exponential backoff.
func retry(attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = f()
		if err == nil {
			return nil
		}
		log.Printf("⚠️ API Error: %v. Retrying in %v...", err, sleep)
		time.Sleep(sleep)
		sleep *= 2
	}
	return errors.Join(fmt.Errorf("failed after %d attempts", attempts), err)
}
