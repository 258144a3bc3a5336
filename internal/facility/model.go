// Package facility provides the bookable facility domain model.
package facility

import (
	"math"
	"time"
)

// BookingStatus represents where a booking is in its approval flow.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

// IsValid checks if a booking status is recognized.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// Facility is a shared amenity residents can book.
type Facility struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Capacity     int           `json:"capacity"`
	HourlyRate   float64       `json:"hourlyRate"`
	IsActive     bool          `json:"isActive"`
	BookingSlots []BookingSlot `json:"bookingSlots"`
}

// BookingSlot is a reservation of a facility.
type BookingSlot struct {
	ID         string        `json:"id"`
	FacilityID string        `json:"facilityId"`
	ResidentID string        `json:"residentId"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Status     BookingStatus `json:"status"`
	TotalCost  float64       `json:"totalCost"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// BookingRequest is the input for booking a facility.
type BookingRequest struct {
	FacilityID string    `json:"facilityId"`
	ResidentID string    `json:"residentId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

// BookingPatch lists the booking fields that may change.
type BookingPatch struct {
	Status *BookingStatus `json:"status,omitempty"`
}

// Cost prices a booking at rate per hour, rounded to cents. A non-positive
// span costs nothing.
func Cost(rate float64, start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	hours := end.Sub(start).Hours()
	return math.Round(rate*hours*100) / 100
}
