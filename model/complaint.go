package model

import (
	"fmt"
	"time"
)

// Status is the closed set of complaint lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusResolved  Status = "resolved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusDenied    Status = "denied"
)

// Valid reports whether s is one of the six known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusResolved, StatusCompleted, StatusRejected, StatusDenied:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are modeled from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Assignment is one entry in a complaint's append-only worker assignment
// history. The current worker is the last element.
type Assignment struct {
	WorkerID   string    `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Complaint is a citizen-filed report with a lifecycle status and an
// assignment history. Complaints are never hard-deleted except by an
// explicit admin delete.
type Complaint struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	AreaID      string `json:"area_id"`
	IndicatorID string `json:"indicator_id"`
	Description string `json:"description"`
	Status      Status `json:"status"`

	PhotoURL             string `json:"photo_url,omitempty"`
	ThumbnailURL         string `json:"thumbnail_url,omitempty"`
	ResolvedPhotoURL     string `json:"resolved_photo_url,omitempty"`
	ResolvedThumbnailURL string `json:"resolved_thumbnail_url,omitempty"`

	Latitude     float64  `json:"latitude,omitempty"`
	Longitude    float64  `json:"longitude,omitempty"`
	ResolvedLat  *float64 `json:"resolved_lat,omitempty"`
	ResolvedLong *float64 `json:"resolved_long,omitempty"`

	// Admin assignment replaces these fields outright (single assignee).
	ManagerAssigneeID string     `json:"manager_assignee_id,omitempty"`
	ManagerName       string     `json:"manager_name,omitempty"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`

	// Manager assignment appends here; history of every worker ever assigned.
	Assignments []Assignment `json:"assignments,omitempty"`

	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DeniedAt        *time.Time `json:"denied_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentWorker returns the most recently assigned worker, or nil when no
// worker has ever been assigned.
func (c *Complaint) CurrentWorker() *Assignment {
	if len(c.Assignments) == 0 {
		return nil
	}
	return &c.Assignments[len(c.Assignments)-1]
}

// HasWorker reports whether workerID appears anywhere in the assignment
// history. Duplicate assignment is advisory only; callers warn but do not
// block the append.
func (c *Complaint) HasWorker(workerID string) bool {
	for _, a := range c.Assignments {
		if a.WorkerID == workerID {
			return true
		}
	}
	return false
}

func (c *Complaint) String() string {
	return fmt.Sprintf("complaint %s (%s)", c.ID, c.Status)
}
