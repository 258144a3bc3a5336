// Package feedback provides the resident feedback domain model.
package feedback

import "time"

// Category classifies what a feedback item is about.
type Category string

const (
	CategoryComplaint   Category = "complaint"
	CategorySuggestion  Category = "suggestion"
	CategoryMaintenance Category = "maintenance"
	CategorySecurity    Category = "security"
	CategoryOther       Category = "other"
)

// IsValid checks if a category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryComplaint, CategorySuggestion, CategoryMaintenance, CategorySecurity, CategoryOther:
		return true
	}
	return false
}

// Status is how far along handling of a feedback item is.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority is how urgently a feedback item needs attention.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if a priority is recognized.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Feedback is a resident-submitted item.
type Feedback struct {
	ID          string    `json:"id"`
	ResidentID  string    `json:"residentId"`
	Category    Category  `json:"category"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Attachments []string  `json:"attachments,omitempty"`
	AdminReply  string    `json:"adminReply,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Submission is the input for adding feedback. An empty status defaults to
// open and an empty priority to medium.
type Submission struct {
	ResidentID  string   `json:"residentId"`
	Category    Category `json:"category"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Patch lists the feedback fields an administrator may change.
type Patch struct {
	Status     *Status   `json:"status,omitempty"`
	Priority   *Priority `json:"priority,omitempty"`
	AdminReply *string   `json:"adminReply,omitempty"`
}

// Apply merges p into f.
func (p Patch) Apply(f *Feedback) {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.AdminReply != nil {
		f.AdminReply = *p.AdminReply
	}
}
