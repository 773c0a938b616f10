package services

import (
	"strings"
	"testing"

	"github.com/applyos/applyos/internal/models"
	"github.com/stretchr/testify/require"
)

func TestImportCSV_FuzzyHeadersAndStatuses(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	csvData := `Company Name,Job Title,Stage,Link,Date Applied
Acme,Backend Engineer,Applied,https://acme.example/jobs/1,2026-05-01
Globex,Data Scientist,Interviewing,,05/12/2026
Initech,SRE,wishlist,,
`
	report, err := svc.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 3, report.Imported)
	require.Equal(t, 0, report.Skipped)
	require.Empty(t, report.Errors)

	var apps []models.Application
	require.NoError(t, db.Order("id ASC").Find(&apps).Error)
	require.Len(t, apps, 3)

	require.Equal(t, "Acme", apps[0].Company)
	require.Equal(t, "Backend Engineer", apps[0].Role)
	require.Equal(t, models.StatusSubmitted, apps[0].Status)
	require.NotNil(t, apps[0].AppliedAt)
	require.Equal(t, "https://acme.example/jobs/1", apps[0].URL)

	require.Equal(t, models.StatusInterview, apps[1].Status)
	require.Equal(t, models.StatusDraft, apps[2].Status)

	// every imported row gets a history entry
	var histCount int64
	require.NoError(t, db.Model(&models.StatusHistory{}).Count(&histCount).Error)
	require.EqualValues(t, 3, histCount)
}

func TestImportCSV_BadRowsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	csvData := `company,role,status,deadline
Acme,Engineer,submitted,2026-09-30
,Engineer,submitted,
Globex,,submitted,
Hooli,Analyst,flying,
Initech,SRE,draft,not-a-date
Umbrella,Researcher,draft,
`
	report, err := svc.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)
	require.Equal(t, 4, report.Skipped)
	require.Len(t, report.Errors, 4)

	// row numbers count the header as row 1
	require.Equal(t, 3, report.Errors[0].Row)
	require.Contains(t, report.Errors[0].Error, "company is required")
	require.Equal(t, 4, report.Errors[1].Row)
	require.Contains(t, report.Errors[1].Error, "role is required")
	require.Equal(t, 5, report.Errors[2].Row)
	require.Contains(t, report.Errors[2].Error, "unrecognized status")
	require.Equal(t, 6, report.Errors[3].Row)
	require.Contains(t, report.Errors[3].Error, "unparseable date")
}

func TestImportCSV_MissingRequiredColumns(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	_, err := svc.ImportCSV(strings.NewReader("company,notes\nAcme,hi\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "company and role")
}

func TestImportCSV_UnknownColumnsIgnored(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	csvData := "company,role,favorite_color\nAcme,Engineer,teal\n"
	report, err := svc.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)
}

func TestImportCSV_TagsColumn(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	csvData := "company,role,Labels\nAcme,Engineer,\"remote,referral\"\n"
	report, err := svc.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)

	var app models.Application
	require.NoError(t, db.Where("company = ?", "Acme").First(&app).Error)
	require.Equal(t, "remote,referral", app.Tags)
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "companyname", normalizeHeader("  Company Name "))
	require.Equal(t, "companyname", normalizeHeader("company_name"))
	require.Equal(t, "jobtitle", normalizeHeader("Job-Title"))
}
