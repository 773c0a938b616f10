package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses. Transitions between any two of these are legal;
// every change is recorded in StatusHistory.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusInReview  = "in_review"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
)

// AllStatuses in funnel order. Analytics relies on this ordering.
var AllStatuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusInReview,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

func IsValidStatus(s string) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Application struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company  string `gorm:"not null;index" json:"company"`
	Role     string `gorm:"not null" json:"role"`
	Status   string `gorm:"default:'draft';index" json:"status"`
	URL      string `json:"url"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	Notes    string `gorm:"type:text" json:"notes"`

	// Tags is a comma-separated label list ("remote,referral"). Kept as a
	// flat string so CSV import and the extension can write it directly.
	Tags string `json:"tags"`

	Deadline  *time.Time `json:"deadline,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`

	// 'omitempty' keeps list payloads small; Preload fills these.
	Questions []Question      `json:"questions,omitempty"`
	History   []StatusHistory `json:"history,omitempty"`
}

// StatusHistory is an append-only log of status transitions. Analytics
// reconstructs each application's journey from these rows.
type StatusHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `gorm:"not null" json:"to_status"`
	Note          string    `gorm:"type:text" json:"note"`
}

// Document kinds.
const (
	DocResume      = "resume"
	DocTranscript  = "transcript"
	DocCoverLetter = "cover_letter"
	DocOther       = "other"
)

type Document struct {
	// UUID string key: the ID doubles as the object-storage prefix.
	ID        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FileName   string `gorm:"not null" json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	Kind       string `gorm:"default:'other'" json:"kind"`
	StorageKey string `gorm:"not null" json:"-"`

	// ParsedProfile is the AI-extracted resume structure (education,
	// experience, skills) as raw JSON. Empty until a parse is requested.
	ParsedProfile string     `gorm:"type:text" json:"parsed_profile,omitempty"`
	ParsedAt      *time.Time `json:"parsed_at,omitempty"`
}

// Question sources.
const (
	SourceExtracted = "extracted"
	SourceManual    = "manual"
)

type Question struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ApplicationID uint   `gorm:"index;not null" json:"application_id"`
	Prompt        string `gorm:"type:text;not null" json:"prompt"`
	Answer        string `gorm:"type:text" json:"answer"`
	Source        string `gorm:"default:'manual'" json:"source"`
	WordLimit     int    `json:"word_limit"`
}

// Notification kinds.
const (
	NotifyDeadline     = "deadline_reminder"
	NotifyStatusChange = "status_change"
	NotifyDigest       = "digest"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ApplicationID uint   `gorm:"index" json:"application_id"`
	Kind          string `gorm:"not null" json:"kind"`
	Title         string `gorm:"not null" json:"title"`
	Body          string `gorm:"type:text" json:"body"`
	Read          bool   `gorm:"default:false;index" json:"read"`

	// DedupKey prevents the sweeper from creating the same reminder twice.
	DedupKey    string     `gorm:"uniqueIndex" json:"-"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}
