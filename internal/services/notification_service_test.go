package services

import (
	"testing"
	"time"

	"github.com/applyos/applyos/internal/models"
	"github.com/stretchr/testify/require"
)

func appWithDeadline(t *testing.T, svc *NotificationService, company string, deadline time.Time, status string) models.Application {
	t.Helper()
	app := models.Application{Company: company, Role: "Engineer", Status: status, Deadline: &deadline}
	require.NoError(t, svc.DB.Create(&app).Error)
	return app
}

func newNotifySvc(t *testing.T) *NotificationService {
	t.Helper()
	return NewNotificationService(newTestDB(t), nil, time.Hour, 72*time.Hour)
}

func TestCreateDeadlineReminders(t *testing.T) {
	svc := newNotifySvc(t)

	soon := time.Now().Add(48 * time.Hour)
	far := time.Now().Add(30 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	due := appWithDeadline(t, svc, "Acme", soon, models.StatusDraft)
	// None of these should get a reminder: outside the lookahead window,
	// already passed, and past the deadline stage respectively.
	appWithDeadline(t, svc, "Globex", far, models.StatusDraft)
	appWithDeadline(t, svc, "Initech", past, models.StatusDraft)
	appWithDeadline(t, svc, "Hooli", soon, models.StatusInterview)

	created, err := svc.createDeadlineReminders()
	require.NoError(t, err)
	require.Equal(t, 1, created)

	var notifs []models.Notification
	require.NoError(t, svc.DB.Find(&notifs).Error)
	require.Len(t, notifs, 1)
	require.Equal(t, due.ID, notifs[0].ApplicationID)
	require.Equal(t, models.NotifyDeadline, notifs[0].Kind)
	require.NotNil(t, notifs[0].ScheduledAt)
	require.WithinDuration(t, soon, *notifs[0].ScheduledAt, time.Second)
}

func TestCreateDeadlineReminders_Deduplicates(t *testing.T) {
	svc := newNotifySvc(t)
	appWithDeadline(t, svc, "Acme", time.Now().Add(24*time.Hour), models.StatusSubmitted)

	created, err := svc.createDeadlineReminders()
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// second sweep over the same window creates nothing new
	created, err = svc.createDeadlineReminders()
	require.NoError(t, err)
	require.Zero(t, created)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCleanupStale(t *testing.T) {
	svc := newNotifySvc(t)

	old := models.Notification{Kind: models.NotifyDeadline, Title: "old", Read: true, DedupKey: "a"}
	require.NoError(t, svc.DB.Create(&old).Error)
	require.NoError(t, svc.DB.Model(&old).Update("created_at", time.Now().Add(-40*24*time.Hour)).Error)

	fresh := models.Notification{Kind: models.NotifyDeadline, Title: "fresh", Read: true, DedupKey: "b"}
	require.NoError(t, svc.DB.Create(&fresh).Error)

	unreadOld := models.Notification{Kind: models.NotifyDeadline, Title: "unread", Read: false, DedupKey: "c"}
	require.NoError(t, svc.DB.Create(&unreadOld).Error)
	require.NoError(t, svc.DB.Model(&unreadOld).Update("created_at", time.Now().Add(-40*24*time.Hour)).Error)

	require.EqualValues(t, 1, svc.cleanupStale())

	var remaining []models.Notification
	require.NoError(t, svc.DB.Find(&remaining).Error)
	require.Len(t, remaining, 2) // unread ones survive regardless of age
}

func TestListAndMarkRead(t *testing.T) {
	svc := newNotifySvc(t)

	n := models.Notification{Kind: models.NotifyDigest, Title: "weekly digest", DedupKey: "d"}
	require.NoError(t, svc.DB.Create(&n).Error)

	unread, err := svc.List(true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.MarkRead(n.ID))

	unread, err = svc.List(true)
	require.NoError(t, err)
	require.Empty(t, unread)

	all, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Read)
}
