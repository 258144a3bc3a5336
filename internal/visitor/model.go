// Package visitor provides the visitor domain model and its lifecycle rules.
package visitor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is where a visit is in its lifecycle.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
)

// ValidStatuses is the set of allowed visitor statuses.
var ValidStatuses = []Status{StatusRegistered, StatusActive, StatusCompleted, StatusOverdue}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusRegistered:
		return "Registered"
	case StatusActive:
		return "Checked in"
	case StatusCompleted:
		return "Checked out"
	case StatusOverdue:
		return "Overdue"
	default:
		return string(s)
	}
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusOverdue
}

// transitions lists the allowed status edges.
var transitions = map[Status][]Status{
	StatusRegistered: {StatusActive},
	StatusActive:     {StatusCompleted, StatusOverdue},
}

// CanTransition reports whether a visitor in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// DefaultMaxDuration is how long a visit may last before it is overdue.
const DefaultMaxDuration = 8 * time.Hour

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Visitor is one registered visit.
type Visitor struct {
	ID                   string     `json:"id"`
	VisitorName          string     `json:"visitorName"`
	ContactNumber        string     `json:"contactNumber"`
	Email                string     `json:"email,omitempty"`
	VisitingUnit         string     `json:"visitingUnit"`
	ResidentName         string     `json:"residentName"`
	VisitDate            string     `json:"visitDate"` // YYYY-MM-DD
	VisitTime            string     `json:"visitTime"` // HH:MM
	PurposeOfVisit       string     `json:"purposeOfVisit"`
	VehicleNumber        string     `json:"vehicleNumber,omitempty"`
	NumberOfVisitors     int        `json:"numberOfVisitors"`
	IdentificationNumber string     `json:"identificationNumber"`
	IdentificationType   string     `json:"identificationType"`
	CheckInTime          *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime         *time.Time `json:"checkOutTime,omitempty"`
	Status               Status     `json:"status"`
	QRCode               string     `json:"qrCode"`
	GuardOnDuty          string     `json:"guardOnDuty,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Deadline returns the end of the visit window: the scheduled visit date and
// time in loc plus maxDuration. It returns false if the schedule can't be parsed.
func (v Visitor) Deadline(loc *time.Location, maxDuration time.Duration) (time.Time, bool) {
	if v.VisitDate == "" || v.VisitTime == "" {
		return time.Time{}, false
	}
	start, err := parseSchedule(v.VisitDate, v.VisitTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return start.Add(maxDuration), true
}

// IsOverdue reports whether now is strictly past the visit window.
func (v Visitor) IsOverdue(now time.Time, loc *time.Location, maxDuration time.Duration) bool {
	deadline, ok := v.Deadline(loc, maxDuration)
	if !ok {
		return false
	}
	return now.After(deadline)
}

func parseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	// Accept HH:MM:SS as well as HH:MM.
	layout := dateLayout + "T" + timeLayout
	if strings.Count(clock, ":") == 2 {
		layout += ":05"
	}
	return time.ParseInLocation(layout, date+"T"+clock, loc)
}

// Registration is the input for registering a new visitor. ID, status,
// token and timestamps are assigned by the store.
type Registration struct {
	VisitorName          string `json:"visitorName"`
	ContactNumber        string `json:"contactNumber"`
	Email                string `json:"email,omitempty"`
	VisitingUnit         string `json:"visitingUnit"`
	ResidentName         string `json:"residentName"`
	VisitDate            string `json:"visitDate"`
	VisitTime            string `json:"visitTime"`
	PurposeOfVisit       string `json:"purposeOfVisit"`
	VehicleNumber        string `json:"vehicleNumber,omitempty"`
	NumberOfVisitors     int    `json:"numberOfVisitors"`
	IdentificationNumber string `json:"identificationNumber"`
	IdentificationType   string `json:"identificationType"`
}

// ErrValidation marks a registration or patch rejected before dispatch.
var ErrValidation = errors.New("validation failed")

// Validate checks the fields a registration form requires.
func (r Registration) Validate() error {
	required := []struct{ field, value string }{
		{"visitorName", r.VisitorName},
		{"contactNumber", r.ContactNumber},
		{"visitingUnit", r.VisitingUnit},
		{"residentName", r.ResidentName},
		{"visitDate", r.VisitDate},
		{"visitTime", r.VisitTime},
		{"purposeOfVisit", r.PurposeOfVisit},
		{"identificationNumber", r.IdentificationNumber},
		{"identificationType", r.IdentificationType},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	if _, err := parseSchedule(r.VisitDate, r.VisitTime, time.UTC); err != nil {
		return fmt.Errorf("%w: invalid visit date/time (use YYYY-MM-DD and HH:MM)", ErrValidation)
	}
	if r.NumberOfVisitors < 1 {
		return fmt.Errorf("%w: numberOfVisitors must be at least 1, got %d", ErrValidation, r.NumberOfVisitors)
	}

	return nil
}

// Patch lists the visitor fields that may change after registration.
// Nil fields are left untouched.
type Patch struct {
	VisitorName          *string `json:"visitorName,omitempty"`
	ContactNumber        *string `json:"contactNumber,omitempty"`
	Email                *string `json:"email,omitempty"`
	VisitingUnit         *string `json:"visitingUnit,omitempty"`
	ResidentName         *string `json:"residentName,omitempty"`
	VisitDate            *string `json:"visitDate,omitempty"`
	VisitTime            *string `json:"visitTime,omitempty"`
	PurposeOfVisit       *string `json:"purposeOfVisit,omitempty"`
	VehicleNumber        *string `json:"vehicleNumber,omitempty"`
	NumberOfVisitors     *int    `json:"numberOfVisitors,omitempty"`
	IdentificationNumber *string `json:"identificationNumber,omitempty"`
	IdentificationType   *string `json:"identificationType,omitempty"`
	Status               *Status `json:"status,omitempty"`
}

// Validate rejects patch values that would break a visitor record.
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, *p.Status)
	}
	if p.NumberOfVisitors != nil && *p.NumberOfVisitors < 1 {
		return fmt.Errorf("%w: numberOfVisitors must be at least 1", ErrValidation)
	}
	return nil
}

// ApplyFields merges the non-status fields of p into v.
func (p Patch) ApplyFields(v *Visitor) {
	setString(&v.VisitorName, p.VisitorName)
	setString(&v.ContactNumber, p.ContactNumber)
	setString(&v.Email, p.Email)
	setString(&v.VisitingUnit, p.VisitingUnit)
	setString(&v.ResidentName, p.ResidentName)
	setString(&v.VisitDate, p.VisitDate)
	setString(&v.VisitTime, p.VisitTime)
	setString(&v.PurposeOfVisit, p.PurposeOfVisit)
	setString(&v.VehicleNumber, p.VehicleNumber)
	setString(&v.IdentificationNumber, p.IdentificationNumber)
	setString(&v.IdentificationType, p.IdentificationType)
	if p.NumberOfVisitors != nil {
		v.NumberOfVisitors = *p.NumberOfVisitors
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
