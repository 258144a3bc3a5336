// Package store holds the single authoritative snapshot of the property's
// domain data and applies intents to it one at a time.
package store

import (
	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/resident"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// User describes the operator the dashboard runs as.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// State is an immutable snapshot of every domain collection. A State handed
// out by the store is never modified; callers must not modify it either.
type State struct {
	Visitors      []visitor.Visitor           `json:"visitors"`
	Residents     []resident.Resident         `json:"residents"`
	Vehicles      []resident.Vehicle          `json:"vehicles"`
	Facilities    []facility.Facility         `json:"facilities"`
	Feedback      []feedback.Feedback         `json:"feedback"`
	Announcements []announcement.Announcement `json:"announcements"`
	CurrentUser   User                        `json:"currentUser"`
}

// Visitor returns the visitor with the given ID.
func (s *State) Visitor(id string) (visitor.Visitor, bool) {
	for _, v := range s.Visitors {
		if v.ID == id {
			return v, true
		}
	}
	return visitor.Visitor{}, false
}

// VisitorsByStatus returns visitors holding status, in registration order.
// An empty status returns all visitors.
func (s *State) VisitorsByStatus(status visitor.Status) []visitor.Visitor {
	if status == "" {
		return s.Visitors
	}
	var out []visitor.Visitor
	for _, v := range s.Visitors {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

// StatusCounts returns the number of visitors in each status.
func (s *State) StatusCounts() map[visitor.Status]int {
	counts := make(map[visitor.Status]int, len(visitor.ValidStatuses))
	for _, st := range visitor.ValidStatuses {
		counts[st] = 0
	}
	for _, v := range s.Visitors {
		counts[v.Status]++
	}
	return counts
}

// Resident returns the resident with the given ID.
func (s *State) Resident(id string) (resident.Resident, bool) {
	for _, r := range s.Residents {
		if r.ID == id {
			return r, true
		}
	}
	return resident.Resident{}, false
}

// VehiclesOf returns the vehicles registered to a resident.
func (s *State) VehiclesOf(residentID string) []resident.Vehicle {
	var out []resident.Vehicle
	for _, v := range s.Vehicles {
		if v.ResidentID == residentID {
			out = append(out, v)
		}
	}
	return out
}

// Facility returns the facility with the given ID.
func (s *State) Facility(id string) (facility.Facility, bool) {
	for _, f := range s.Facilities {
		if f.ID == id {
			return f, true
		}
	}
	return facility.Facility{}, false
}
