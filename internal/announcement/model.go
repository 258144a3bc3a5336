// Package announcement provides the published notice domain model.
package announcement

import (
	"slices"
	"time"
)

// Type classifies an announcement.
type Type string

const (
	TypeGeneral     Type = "general"
	TypeMaintenance Type = "maintenance"
	TypeEmergency   Type = "emergency"
	TypeEvent       Type = "event"
)

// IsValid checks if a type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeGeneral, TypeMaintenance, TypeEmergency, TypeEvent:
		return true
	}
	return false
}

// Audience is who an announcement is addressed to.
type Audience string

const (
	AudienceAll           Audience = "all"
	AudienceResidents     Audience = "residents"
	AudienceSpecificUnits Audience = "specific-units"
)

// IsValid checks if an audience is recognized.
func (a Audience) IsValid() bool {
	switch a {
	case AudienceAll, AudienceResidents, AudienceSpecificUnits:
		return true
	}
	return false
}

// Announcement is a published notice.
type Announcement struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Type           Type       `json:"type"`
	TargetAudience Audience   `json:"targetAudience"`
	TargetUnits    []string   `json:"targetUnits,omitempty"`
	IsActive       bool       `json:"isActive"`
	PublishDate    time.Time  `json:"publishDate"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// IsExpired reports whether the announcement has an expiry before now.
func (a Announcement) IsExpired(now time.Time) bool {
	return a.ExpiryDate != nil && a.ExpiryDate.Before(now)
}

// IsVisible reports whether the announcement is active and not expired.
func (a Announcement) IsVisible(now time.Time) bool {
	return a.IsActive && !a.IsExpired(now)
}

// Targets reports whether the announcement is addressed to unit.
func (a Announcement) Targets(unit string) bool {
	if a.TargetAudience != AudienceSpecificUnits {
		return true
	}
	return slices.Contains(a.TargetUnits, unit)
}

// Draft is the input for publishing an announcement.
type Draft struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Type           Type       `json:"type"`
	TargetAudience Audience   `json:"targetAudience"`
	TargetUnits    []string   `json:"targetUnits,omitempty"`
	IsActive       bool       `json:"isActive"`
	PublishDate    time.Time  `json:"publishDate"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	CreatedBy      string     `json:"createdBy"`
}

// Patch lists the announcement fields that may change.
type Patch struct {
	Title          *string    `json:"title,omitempty"`
	Content        *string    `json:"content,omitempty"`
	Type           *Type      `json:"type,omitempty"`
	TargetAudience *Audience  `json:"targetAudience,omitempty"`
	TargetUnits    []string   `json:"targetUnits,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
}

// Apply merges p into a. Target units are copied.
func (p Patch) Apply(a *Announcement) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.TargetAudience != nil {
		a.TargetAudience = *p.TargetAudience
	}
	if p.TargetUnits != nil {
		a.TargetUnits = slices.Clone(p.TargetUnits)
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	if p.ExpiryDate != nil {
		expiry := *p.ExpiryDate
		a.ExpiryDate = &expiry
	}
}
