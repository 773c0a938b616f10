package dtos

import "time"

type ApplicationCreateRequest struct {
	Company string `json:"company" binding:"required"`
	Role    string `json:"role" binding:"required"`

	// Optional Fields
	Status    string     `json:"status"` // Defaults to "draft" if empty
	URL       string     `json:"url"`
	Location  string     `json:"location"`
	Salary    string     `json:"salary"`
	Notes     string     `json:"notes"`
	Tags      string     `json:"tags"`
	Deadline  *time.Time `json:"deadline"`
	AppliedAt *time.Time `json:"applied_at"`
}

type ApplicationUpdateRequest struct {
	Company   *string    `json:"company"`
	Role      *string    `json:"role"`
	URL       *string    `json:"url"`
	Location  *string    `json:"location"`
	Salary    *string    `json:"salary"`
	Notes     *string    `json:"notes"`
	Tags      *string    `json:"tags"`
	Deadline  *time.Time `json:"deadline"`
	AppliedAt *time.Time `json:"applied_at"`
}

type StatusChangeRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type ApplicationListQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
}
