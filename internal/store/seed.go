package store

import (
	"time"

	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/resident"
)

// DefaultUser is the operator the dashboard runs as.
var DefaultUser = User{
	ID:    "admin1",
	Name:  "Admin Guard",
	Role:  "admin",
	Email: "admin@property.com",
}

// Seed returns the intent that loads the sample residents and facilities
// the dashboard starts with.
func Seed() Initialize {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := DefaultUser

	return Initialize{
		Residents: []resident.Resident{
			{ID: "RES001", Name: "Ahmad Hassan", Unit: "B-12-03", ContactNumber: "+60123456789", Email: "ahmad@email.com", IsActive: true, Vehicles: []string{}, CreatedAt: created},
			{ID: "RES002", Name: "Li Wei Ming", Unit: "A-05-08", ContactNumber: "+60198765432", Email: "li@email.com", IsActive: true, Vehicles: []string{}, CreatedAt: created},
			{ID: "RES003", Name: "Siti Nurhaliza", Unit: "C-08-12", ContactNumber: "+60187654321", Email: "siti@email.com", IsActive: true, Vehicles: []string{}, CreatedAt: created},
		},
		Facilities: []facility.Facility{
			{ID: "FAC001", Name: "Function Room A", Description: "Large function room with projector and sound system", Capacity: 50, HourlyRate: 100, IsActive: true, BookingSlots: []facility.BookingSlot{}},
			{ID: "FAC002", Name: "BBQ Pit Area", Description: "Outdoor BBQ area with grilling equipment", Capacity: 20, HourlyRate: 50, IsActive: true, BookingSlots: []facility.BookingSlot{}},
			{ID: "FAC003", Name: "Gymnasium", Description: "Fully equipped gym with cardio and weight equipment", Capacity: 15, HourlyRate: 30, IsActive: true, BookingSlots: []facility.BookingSlot{}},
		},
		CurrentUser: &user,
	}
}

// NewSeeded creates a store and loads the seed data into it.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	// Initialize cannot fail.
	_, _ = s.Dispatch(Seed())
	return s
}
