package services

import (
	"testing"

	"github.com/applyos/applyos/internal/dtos"
	"github.com/applyos/applyos/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreate_RecordsInitialHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer"})
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, app.Status)

	hist, err := svc.History(app.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, "", hist[0].FromStatus)
	require.Equal(t, models.StatusDraft, hist[0].ToStatus)
}

func TestCreate_SubmittedSetsAppliedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: models.StatusSubmitted})
	require.NoError(t, err)
	require.NotNil(t, app.AppliedAt)
}

func TestCreateAndUpdate_Tags(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Tags: "remote,referral"})
	require.NoError(t, err)
	require.Equal(t, "remote,referral", app.Tags)

	tags := "remote,referral,urgent"
	_, err = svc.Update(app.ID, &dtos.ApplicationUpdateRequest{Tags: &tags})
	require.NoError(t, err)

	got, err := svc.Get(app.ID)
	require.NoError(t, err)
	require.Equal(t, tags, got.Tags)
}

func TestCreate_RejectsInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: "pending"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestChangeStatus_AppendsHistoryAndNotifies(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: models.StatusSubmitted})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(app.ID, &dtos.StatusChangeRequest{Status: models.StatusInterview, Note: "phone screen booked"})
	require.NoError(t, err)
	require.Equal(t, models.StatusInterview, updated.Status)

	hist, err := svc.History(app.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, models.StatusSubmitted, hist[1].FromStatus)
	require.Equal(t, models.StatusInterview, hist[1].ToStatus)
	require.Equal(t, "phone screen booked", hist[1].Note)

	var notifs []models.Notification
	require.NoError(t, db.Where("application_id = ?", app.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	require.Equal(t, models.NotifyStatusChange, notifs[0].Kind)
}

func TestChangeStatus_ChainedTransitionsRecordPreviousStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: models.StatusSubmitted})
	require.NoError(t, err)

	for _, next := range []string{models.StatusInterview, models.StatusOffer} {
		_, err = svc.ChangeStatus(app.ID, &dtos.StatusChangeRequest{Status: next})
		require.NoError(t, err)
	}

	hist, err := svc.History(app.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	for i, h := range hist[1:] {
		require.Equal(t, hist[i].ToStatus, h.FromStatus, "row %d should start where the previous row ended", i+1)
		require.NotEqual(t, h.FromStatus, h.ToStatus, "row %d should not be a self-loop", i+1)
	}
}

func TestChangeStatus_NoOpTransition(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: models.StatusSubmitted})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(app.ID, &dtos.StatusChangeRequest{Status: models.StatusSubmitted})
	require.NoError(t, err)

	hist, err := svc.History(app.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1) // only the creation row
}

func TestChangeStatus_ReopenTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	app, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Engineer", Status: models.StatusRejected})
	require.NoError(t, err)

	// rejection was a mistake; manual reopen is allowed and recorded
	updated, err := svc.ChangeStatus(app.ID, &dtos.StatusChangeRequest{Status: models.StatusInReview})
	require.NoError(t, err)
	require.Equal(t, models.StatusInReview, updated.Status)
}

func TestList_FiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)

	_, err := svc.Create(&dtos.ApplicationCreateRequest{Company: "Acme", Role: "Backend Engineer", Status: models.StatusSubmitted})
	require.NoError(t, err)
	_, err = svc.Create(&dtos.ApplicationCreateRequest{Company: "Globex", Role: "Data Scientist"})
	require.NoError(t, err)

	byStatus, err := svc.List(&dtos.ApplicationListQuery{Status: models.StatusSubmitted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "Acme", byStatus[0].Company)

	bySearch, err := svc.List(&dtos.ApplicationListQuery{Search: "Data"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, "Globex", bySearch[0].Company)
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	require.ErrorIs(t, svc.Delete(42), gorm.ErrRecordNotFound)
}
