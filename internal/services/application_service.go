package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/applyos/applyos/internal/dtos"
	"github.com/applyos/applyos/internal/models"
	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("invalid status")

type ApplicationService struct {
	DB *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{DB: db}
}

func (s *ApplicationService) Create(req *dtos.ApplicationCreateRequest) (*models.Application, error) {
	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	app := &models.Application{
		Company:   req.Company,
		Role:      req.Role,
		Status:    status,
		URL:       req.URL,
		Location:  req.Location,
		Salary:    req.Salary,
		Notes:     req.Notes,
		Tags:      req.Tags,
		Deadline:  req.Deadline,
		AppliedAt: req.AppliedAt,
	}
	if status == models.StatusSubmitted && app.AppliedAt == nil {
		now := time.Now()
		app.AppliedAt = &now
	}

	// Create the row together with its first history entry so an application
	// never exists without a reconstructable journey.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		hist := models.StatusHistory{
			ApplicationID: app.ID,
			FromStatus:    "",
			ToStatus:      status,
		}
		return tx.Create(&hist).Error
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) Get(id uint) (*models.Application, error) {
	var app models.Application
	err := s.DB.Preload("Questions").Preload("History").First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *ApplicationService) List(q *dtos.ApplicationListQuery) ([]models.Application, error) {
	db := s.DB.Order("created_at DESC")
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("company LIKE ? OR role LIKE ?", like, like)
	}
	var apps []models.Application
	if err := db.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ApplicationService) Update(id uint, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	var app models.Application
	if err := s.DB.First(&app, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if req.AppliedAt != nil {
		updates["applied_at"] = *req.AppliedAt
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&app).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &app, nil
}

func (s *ApplicationService) Delete(id uint) error {
	res := s.DB.Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ChangeStatus moves an application to a new status and appends the history
// row in the same transaction. A status_change notification is created so the
// change shows up in the inbox.
func (s *ApplicationService) ChangeStatus(id uint, req *dtos.StatusChangeRequest) (*models.Application, error) {
	if !models.IsValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	var app models.Application
	if err := s.DB.First(&app, id).Error; err != nil {
		return nil, err
	}
	if app.Status == req.Status {
		// no-op transition: nothing to record
		return &app, nil
	}

	// Updates writes the new status back into app, so remember where we came
	// from before touching the row.
	prev := app.Status
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}
		if req.Status == models.StatusSubmitted && app.AppliedAt == nil {
			updates["applied_at"] = time.Now()
		}
		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return err
		}

		hist := models.StatusHistory{
			ApplicationID: app.ID,
			FromStatus:    prev,
			ToStatus:      req.Status,
			Note:          req.Note,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return err
		}

		notif := models.Notification{
			ApplicationID: app.ID,
			Kind:          models.NotifyStatusChange,
			Title:         fmt.Sprintf("%s — %s moved to %s", app.Company, app.Role, req.Status),
			Body:          req.Note,
			DedupKey:      fmt.Sprintf("status:%d:%d", app.ID, time.Now().UnixNano()),
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		return nil, err
	}

	app.Status = req.Status
	return &app, nil
}

func (s *ApplicationService) History(id uint) ([]models.StatusHistory, error) {
	var hist []models.StatusHistory
	err := s.DB.Where("application_id = ?", id).Order("created_at ASC").Find(&hist).Error
	return hist, err
}
