package store

import (
	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/resident"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// Intent is a request to change the store. The set of intents is closed:
// only the types in this file implement it.
type Intent interface {
	// Name is a stable label for logs and metrics.
	Name() string
	isIntent()
}

// Initialize replaces every collection that is non-nil, and the current
// user when set. It loads seed data at startup.
type Initialize struct {
	Visitors      []visitor.Visitor
	Residents     []resident.Resident
	Vehicles      []resident.Vehicle
	Facilities    []facility.Facility
	Feedback      []feedback.Feedback
	Announcements []announcement.Announcement
	CurrentUser   *User
}

// RegisterVisitor creates a visitor in the registered state.
type RegisterVisitor struct {
	Registration visitor.Registration
}

// CheckInVisitor moves a registered visitor to active.
type CheckInVisitor struct {
	ID          string
	GuardOnDuty string
}

// CheckOutVisitor moves an active visitor to completed.
type CheckOutVisitor struct {
	ID string
}

// UpdateVisitor merges a patch into a visitor. A status change follows the
// same transition rules as check-in and check-out.
type UpdateVisitor struct {
	ID    string
	Patch visitor.Patch
}

// AddResident creates a resident.
type AddResident struct {
	Resident resident.NewResident
}

// UpdateResident merges a patch into a resident.
type UpdateResident struct {
	ID    string
	Patch resident.Patch
}

// AddVehicle registers a vehicle and links it to its resident.
type AddVehicle struct {
	Vehicle resident.NewVehicle
}

// UpdateVehicle merges a patch into a vehicle.
type UpdateVehicle struct {
	ID    string
	Patch resident.VehiclePatch
}

// AddFeedback records a feedback submission.
type AddFeedback struct {
	Feedback feedback.Submission
}

// UpdateFeedback merges a patch into a feedback item.
type UpdateFeedback struct {
	ID    string
	Patch feedback.Patch
}

// AddAnnouncement publishes an announcement.
type AddAnnouncement struct {
	Announcement announcement.Draft
}

// UpdateAnnouncement merges a patch into an announcement.
type UpdateAnnouncement struct {
	ID    string
	Patch announcement.Patch
}

// BookFacility reserves a facility slot as pending.
type BookFacility struct {
	Booking facility.BookingRequest
}

// UpdateBooking merges a patch into a booking slot.
type UpdateBooking struct {
	FacilityID string
	BookingID  string
	Patch      facility.BookingPatch
}

func (Initialize) Name() string         { return "initialize" }
func (RegisterVisitor) Name() string    { return "register_visitor" }
func (CheckInVisitor) Name() string     { return "check_in_visitor" }
func (CheckOutVisitor) Name() string    { return "check_out_visitor" }
func (UpdateVisitor) Name() string      { return "update_visitor" }
func (AddResident) Name() string        { return "add_resident" }
func (UpdateResident) Name() string     { return "update_resident" }
func (AddVehicle) Name() string         { return "add_vehicle" }
func (UpdateVehicle) Name() string      { return "update_vehicle" }
func (AddFeedback) Name() string        { return "add_feedback" }
func (UpdateFeedback) Name() string     { return "update_feedback" }
func (AddAnnouncement) Name() string    { return "add_announcement" }
func (UpdateAnnouncement) Name() string { return "update_announcement" }
func (BookFacility) Name() string       { return "book_facility" }
func (UpdateBooking) Name() string      { return "update_booking" }

func (Initialize) isIntent()         {}
func (RegisterVisitor) isIntent()    {}
func (CheckInVisitor) isIntent()     {}
func (CheckOutVisitor) isIntent()    {}
func (UpdateVisitor) isIntent()      {}
func (AddResident) isIntent()        {}
func (UpdateResident) isIntent()     {}
func (AddVehicle) isIntent()         {}
func (UpdateVehicle) isIntent()      {}
func (AddFeedback) isIntent()        {}
func (UpdateFeedback) isIntent()     {}
func (AddAnnouncement) isIntent()    {}
func (UpdateAnnouncement) isIntent() {}
func (BookFacility) isIntent()       {}
func (UpdateBooking) isIntent()      {}
