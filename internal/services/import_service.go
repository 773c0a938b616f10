package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/applyos/applyos/internal/models"
	"gorm.io/gorm"
)

type ImportService struct {
	DB *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{DB: db}
}

type RowError struct {
	Row   int    `json:"row"` // 1-based, counting the header as row 1
	Error string `json:"error"`
}

type ImportReport struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Canonical column names and their accepted header synonyms. Headers are
// normalized (lowercased, non-alphanumerics stripped) before lookup, so
// "Company Name", "company_name" and "companyName" all match.
var headerSynonyms = map[string]string{
	"company":         "company",
	"companyname":     "company",
	"employer":        "company",
	"organization":    "company",
	"role":            "role",
	"title":           "role",
	"position":        "role",
	"jobtitle":        "role",
	"roletitle":       "role",
	"status":          "status",
	"stage":           "status",
	"url":             "url",
	"link":            "url",
	"joblink":         "url",
	"posting":         "url",
	"location":        "location",
	"city":            "location",
	"salary":          "salary",
	"salaryrange":     "salary",
	"compensation":    "salary",
	"deadline":        "deadline",
	"duedate":         "deadline",
	"due":             "deadline",
	"closes":          "deadline",
	"applied":         "applied_at",
	"appliedat":       "applied_at",
	"dateapplied":     "applied_at",
	"applieddate":     "applied_at",
	"applicationdate": "applied_at",
	"notes":           "notes",
	"comments":        "notes",
	"tags":            "tags",
	"labels":          "tags",
}

// statusAliases maps the spellings real exports use onto our statuses.
var statusAliases = map[string]string{
	"draft":        models.StatusDraft,
	"wishlist":     models.StatusDraft,
	"applied":      models.StatusSubmitted,
	"submitted":    models.StatusSubmitted,
	"inreview":     models.StatusInReview,
	"in_review":    models.StatusInReview,
	"review":       models.StatusInReview,
	"screening":    models.StatusInReview,
	"interview":    models.StatusInterview,
	"interviewing": models.StatusInterview,
	"onsite":       models.StatusInterview,
	"offer":        models.StatusOffer,
	"accepted":     models.StatusOffer,
	"rejected":     models.StatusRejected,
	"declined":     models.StatusRejected,
	"ghosted":      models.StatusRejected,
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapHeaders resolves each CSV column to a canonical field, or "" when the
// column is unrecognized (those are ignored, not errors).
func mapHeaders(headers []string) ([]string, error) {
	mapped := make([]string, len(headers))
	seen := make(map[string]bool)
	for i, h := range headers {
		canon := headerSynonyms[normalizeHeader(h)]
		if canon != "" && seen[canon] {
			return nil, fmt.Errorf("duplicate column %q", canon)
		}
		mapped[i] = canon
		if canon != "" {
			seen[canon] = true
		}
	}
	if !seen["company"] || !seen["role"] {
		return nil, fmt.Errorf("CSV must contain company and role columns")
	}
	return mapped, nil
}

func normalizeStatus(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return models.StatusDraft, nil
	}
	key := normalizeHeader(raw)
	if st, ok := statusAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unrecognized status %q", raw)
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", raw)
}

// buildApplication validates one row. Rows are independent: an error here
// affects only this row.
func buildApplication(mapped []string, record []string) (*models.Application, error) {
	app := &models.Application{Status: models.StatusDraft}
	for i, field := range mapped {
		if field == "" || i >= len(record) {
			continue
		}
		val := strings.TrimSpace(record[i])
		switch field {
		case "company":
			app.Company = val
		case "role":
			app.Role = val
		case "status":
			st, err := normalizeStatus(val)
			if err != nil {
				return nil, err
			}
			app.Status = st
		case "url":
			app.URL = val
		case "location":
			app.Location = val
		case "salary":
			app.Salary = val
		case "notes":
			app.Notes = val
		case "tags":
			app.Tags = val
		case "deadline":
			d, err := parseDate(val)
			if err != nil {
				return nil, err
			}
			app.Deadline = d
		case "applied_at":
			d, err := parseDate(val)
			if err != nil {
				return nil, err
			}
			app.AppliedAt = d
		}
	}

	if app.Company == "" {
		return nil, fmt.Errorf("company is required")
	}
	if app.Role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if app.Status == models.StatusSubmitted && app.AppliedAt == nil {
		now := time.Now()
		app.AppliedAt = &now
	}
	return app, nil
}

// ImportCSV reads the upload, fuzzy-maps headers, validates each row and
// inserts the valid ones. One bad row never aborts the rest.
func (s *ImportService) ImportCSV(r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-row
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	mapped, err := mapHeaders(headers)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Errors: []RowError{}}
	rowNum := 1
	for {
		rowNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		app, err := buildApplication(mapped, record)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(app).Error; err != nil {
				return err
			}
			hist := models.StatusHistory{
				ApplicationID: app.ID,
				ToStatus:      app.Status,
				Note:          "imported from CSV",
			}
			return tx.Create(&hist).Error
		})
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		report.Imported++
	}
	return report, nil
}
