// Package resident provides the resident and vehicle domain models.
package resident

import "time"

// Resident is an occupant of a unit.
type Resident struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Unit          string    `json:"unit"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email"`
	IsActive      bool      `json:"isActive"`
	Vehicles      []string  `json:"vehicles"` // vehicle IDs owned by this resident
	CreatedAt     time.Time `json:"createdAt"`
}

// NewResident is the input for adding a resident.
type NewResident struct {
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
}

// Patch lists the resident fields that may change. Nil fields are untouched.
type Patch struct {
	Name          *string `json:"name,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
	Email         *string `json:"email,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// Apply merges p into r.
func (p Patch) Apply(r *Resident) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Unit != nil {
		r.Unit = *p.Unit
	}
	if p.ContactNumber != nil {
		r.ContactNumber = *p.ContactNumber
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
}

// VehicleStatus is the gate access list a vehicle is on.
type VehicleStatus string

const (
	VehicleWhitelist VehicleStatus = "whitelist"
	VehicleBlacklist VehicleStatus = "blacklist"
	VehiclePending   VehicleStatus = "pending"
)

// IsValid checks if a vehicle status is recognized.
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleWhitelist, VehicleBlacklist, VehiclePending:
		return true
	}
	return false
}

// Vehicle is a registered vehicle.
type Vehicle struct {
	ID          string        `json:"id"`
	PlateNumber string        `json:"plateNumber"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Color       string        `json:"color"`
	Status      VehicleStatus `json:"status"`
	ResidentID  string        `json:"residentId"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NewVehicle is the input for adding a vehicle.
type NewVehicle struct {
	PlateNumber string        `json:"plateNumber"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Color       string        `json:"color"`
	Status      VehicleStatus `json:"status"`
	ResidentID  string        `json:"residentId"`
}

// VehiclePatch lists the vehicle fields that may change.
type VehiclePatch struct {
	PlateNumber *string        `json:"plateNumber,omitempty"`
	Make        *string        `json:"make,omitempty"`
	Model       *string        `json:"model,omitempty"`
	Color       *string        `json:"color,omitempty"`
	Status      *VehicleStatus `json:"status,omitempty"`
}

// Apply merges p into v.
func (p VehiclePatch) Apply(v *Vehicle) {
	if p.PlateNumber != nil {
		v.PlateNumber = *p.PlateNumber
	}
	if p.Make != nil {
		v.Make = *p.Make
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
}
