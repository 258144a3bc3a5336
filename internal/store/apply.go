package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/qrcode"
	"github.com/evcraddock/gatehouse/internal/resident"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

var (
	// ErrNotFound means an intent referenced an ID that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means an intent asked for a status change the
	// visitor lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDuplicateID means no unused visitor ID could be generated.
	ErrDuplicateID = errors.New("could not allocate unique visitor id")
)

// maxIDAttempts bounds visitor ID regeneration on collision.
const maxIDAttempts = 8

// Env carries the impure inputs of a transition so Apply stays deterministic.
type Env struct {
	Now          time.Time
	NewID        func(prefix string) string
	NewVisitorID func() string
}

// Apply returns the snapshot that results from applying in to s. It never
// modifies s. When the intent has no effect it returns s itself along with
// ErrNotFound or ErrInvalidTransition; the error reports the no-op and
// leaves the snapshot unchanged.
func Apply(s *State, in Intent, env Env) (*State, error) {
	switch in := in.(type) {
	case Initialize:
		return applyInitialize(s, in), nil
	case RegisterVisitor:
		return applyRegister(s, in, env)
	case CheckInVisitor:
		return updateVisitor(s, in.ID, env.Now, func(v *visitor.Visitor) error {
			if err := transition(v, visitor.StatusActive, env.Now); err != nil {
				return err
			}
			v.GuardOnDuty = in.GuardOnDuty
			return nil
		})
	case CheckOutVisitor:
		return updateVisitor(s, in.ID, env.Now, func(v *visitor.Visitor) error {
			return transition(v, visitor.StatusCompleted, env.Now)
		})
	case UpdateVisitor:
		return updateVisitor(s, in.ID, env.Now, func(v *visitor.Visitor) error {
			if to := in.Patch.Status; to != nil {
				switch {
				case *to != v.Status:
					if err := transition(v, *to, env.Now); err != nil {
						return err
					}
				case v.Status.IsTerminal():
					// A second sweep over a stale snapshot lands here.
					return fmt.Errorf("%w: already %s", ErrInvalidTransition, v.Status)
				}
			}
			date, unit := v.VisitDate, v.VisitingUnit
			in.Patch.ApplyFields(v)
			if v.VisitDate != date || v.VisitingUnit != unit {
				v.QRCode = qrcode.EncodeAt(v.ID, v.VisitDate, v.VisitingUnit, env.Now)
			}
			return nil
		})
	case AddResident:
		return applyAddResident(s, in, env), nil
	case UpdateResident:
		residents, err := updateByID(s.Residents, in.ID, residentID, func(r *resident.Resident) error {
			in.Patch.Apply(r)
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("resident %s: %w", in.ID, err)
		}
		next := *s
		next.Residents = residents
		return &next, nil
	case AddVehicle:
		return applyAddVehicle(s, in, env), nil
	case UpdateVehicle:
		vehicles, err := updateByID(s.Vehicles, in.ID, vehicleID, func(v *resident.Vehicle) error {
			in.Patch.Apply(v)
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("vehicle %s: %w", in.ID, err)
		}
		next := *s
		next.Vehicles = vehicles
		return &next, nil
	case AddFeedback:
		return applyAddFeedback(s, in, env), nil
	case UpdateFeedback:
		items, err := updateByID(s.Feedback, in.ID, feedbackID, func(f *feedback.Feedback) error {
			in.Patch.Apply(f)
			f.UpdatedAt = env.Now
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("feedback %s: %w", in.ID, err)
		}
		next := *s
		next.Feedback = items
		return &next, nil
	case AddAnnouncement:
		return applyAddAnnouncement(s, in, env), nil
	case UpdateAnnouncement:
		items, err := updateByID(s.Announcements, in.ID, announcementID, func(a *announcement.Announcement) error {
			in.Patch.Apply(a)
			return nil
		})
		if err != nil {
			return s, fmt.Errorf("announcement %s: %w", in.ID, err)
		}
		next := *s
		next.Announcements = items
		return &next, nil
	case BookFacility:
		return applyBookFacility(s, in, env)
	case UpdateBooking:
		return applyUpdateBooking(s, in)
	default:
		return s, fmt.Errorf("unhandled intent %T", in)
	}
}

// transition moves v to status to, stamping the check-in or check-out time.
func transition(v *visitor.Visitor, to visitor.Status, now time.Time) error {
	if !v.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, to)
	}
	switch to {
	case visitor.StatusActive:
		v.CheckInTime = &now
	case visitor.StatusCompleted:
		v.CheckOutTime = &now
	}
	v.Status = to
	return nil
}

func applyInitialize(s *State, in Initialize) *State {
	next := *s
	if in.Visitors != nil {
		next.Visitors = slices.Clone(in.Visitors)
	}
	if in.Residents != nil {
		next.Residents = slices.Clone(in.Residents)
	}
	if in.Vehicles != nil {
		next.Vehicles = slices.Clone(in.Vehicles)
	}
	if in.Facilities != nil {
		next.Facilities = slices.Clone(in.Facilities)
	}
	if in.Feedback != nil {
		next.Feedback = slices.Clone(in.Feedback)
	}
	if in.Announcements != nil {
		next.Announcements = slices.Clone(in.Announcements)
	}
	if in.CurrentUser != nil {
		next.CurrentUser = *in.CurrentUser
	}
	return &next
}

func applyRegister(s *State, in RegisterVisitor, env Env) (*State, error) {
	id, err := uniqueVisitorID(s, env.NewVisitorID)
	if err != nil {
		return s, err
	}

	r := in.Registration
	v := visitor.Visitor{
		ID:                   id,
		VisitorName:          r.VisitorName,
		ContactNumber:        r.ContactNumber,
		Email:                r.Email,
		VisitingUnit:         r.VisitingUnit,
		ResidentName:         r.ResidentName,
		VisitDate:            r.VisitDate,
		VisitTime:            r.VisitTime,
		PurposeOfVisit:       r.PurposeOfVisit,
		VehicleNumber:        r.VehicleNumber,
		NumberOfVisitors:     r.NumberOfVisitors,
		IdentificationNumber: r.IdentificationNumber,
		IdentificationType:   r.IdentificationType,
		Status:               visitor.StatusRegistered,
		QRCode:               qrcode.EncodeAt(id, r.VisitDate, r.VisitingUnit, env.Now),
		CreatedAt:            env.Now,
		UpdatedAt:            env.Now,
	}

	next := *s
	next.Visitors = appendCopy(s.Visitors, v)
	return &next, nil
}

func uniqueVisitorID(s *State, gen func() string) (string, error) {
	for range maxIDAttempts {
		id := gen()
		if _, taken := s.Visitor(id); !taken {
			return id, nil
		}
	}
	return "", ErrDuplicateID
}

func updateVisitor(s *State, id string, now time.Time, fn func(*visitor.Visitor) error) (*State, error) {
	visitors, err := updateByID(s.Visitors, id, visitorID, func(v *visitor.Visitor) error {
		if err := fn(v); err != nil {
			return err
		}
		v.UpdatedAt = now
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("visitor %s: %w", id, err)
	}
	next := *s
	next.Visitors = visitors
	return &next, nil
}

func applyAddResident(s *State, in AddResident, env Env) *State {
	r := resident.Resident{
		ID:            env.NewID("RES"),
		Name:          in.Resident.Name,
		Unit:          in.Resident.Unit,
		ContactNumber: in.Resident.ContactNumber,
		Email:         in.Resident.Email,
		IsActive:      in.Resident.IsActive,
		Vehicles:      []string{},
		CreatedAt:     env.Now,
	}
	next := *s
	next.Residents = appendCopy(s.Residents, r)
	return &next
}

func applyAddVehicle(s *State, in AddVehicle, env Env) *State {
	status := in.Vehicle.Status
	if status == "" {
		status = resident.VehiclePending
	}
	v := resident.Vehicle{
		ID:          env.NewID("VEH"),
		PlateNumber: in.Vehicle.PlateNumber,
		Make:        in.Vehicle.Make,
		Model:       in.Vehicle.Model,
		Color:       in.Vehicle.Color,
		Status:      status,
		ResidentID:  in.Vehicle.ResidentID,
		CreatedAt:   env.Now,
	}

	next := *s
	next.Vehicles = appendCopy(s.Vehicles, v)

	// The owner may not exist; the vehicle is still recorded.
	residents, err := updateByID(s.Residents, v.ResidentID, residentID, func(r *resident.Resident) error {
		r.Vehicles = appendCopy(r.Vehicles, v.ID)
		return nil
	})
	if err == nil {
		next.Residents = residents
	}
	return &next
}

func applyAddFeedback(s *State, in AddFeedback, env Env) *State {
	sub := in.Feedback
	status := sub.Status
	if status == "" {
		status = feedback.StatusOpen
	}
	priority := sub.Priority
	if priority == "" {
		priority = feedback.PriorityMedium
	}
	f := feedback.Feedback{
		ID:          env.NewID("FB"),
		ResidentID:  sub.ResidentID,
		Category:    sub.Category,
		Subject:     sub.Subject,
		Description: sub.Description,
		Status:      status,
		Priority:    priority,
		Attachments: slices.Clone(sub.Attachments),
		CreatedAt:   env.Now,
		UpdatedAt:   env.Now,
	}
	next := *s
	next.Feedback = appendCopy(s.Feedback, f)
	return &next
}

func applyAddAnnouncement(s *State, in AddAnnouncement, env Env) *State {
	d := in.Announcement
	a := announcement.Announcement{
		ID:             env.NewID("ANN"),
		Title:          d.Title,
		Content:        d.Content,
		Type:           d.Type,
		TargetAudience: d.TargetAudience,
		TargetUnits:    slices.Clone(d.TargetUnits),
		IsActive:       d.IsActive,
		PublishDate:    d.PublishDate,
		Attachments:    slices.Clone(d.Attachments),
		CreatedBy:      d.CreatedBy,
		CreatedAt:      env.Now,
	}
	if a.PublishDate.IsZero() {
		a.PublishDate = env.Now
	}
	if d.ExpiryDate != nil {
		expiry := *d.ExpiryDate
		a.ExpiryDate = &expiry
	}
	next := *s
	next.Announcements = appendCopy(s.Announcements, a)
	return &next
}

func applyBookFacility(s *State, in BookFacility, env Env) (*State, error) {
	req := in.Booking
	facilities, err := updateByID(s.Facilities, req.FacilityID, facilityID, func(f *facility.Facility) error {
		if !f.IsActive {
			return fmt.Errorf("inactive: %w", ErrNotFound)
		}
		slot := facility.BookingSlot{
			ID:         env.NewID("BK"),
			FacilityID: f.ID,
			ResidentID: req.ResidentID,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Status:     facility.BookingPending,
			TotalCost:  facility.Cost(f.HourlyRate, req.StartTime, req.EndTime),
			CreatedAt:  env.Now,
		}
		f.BookingSlots = appendCopy(f.BookingSlots, slot)
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("facility %s: %w", req.FacilityID, err)
	}
	next := *s
	next.Facilities = facilities
	return &next, nil
}

func applyUpdateBooking(s *State, in UpdateBooking) (*State, error) {
	facilities, err := updateByID(s.Facilities, in.FacilityID, facilityID, func(f *facility.Facility) error {
		slots, err := updateByID(f.BookingSlots, in.BookingID, bookingID, func(b *facility.BookingSlot) error {
			if in.Patch.Status != nil {
				b.Status = *in.Patch.Status
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("booking %s: %w", in.BookingID, err)
		}
		f.BookingSlots = slots
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("facility %s: %w", in.FacilityID, err)
	}
	next := *s
	next.Facilities = facilities
	return &next, nil
}

// updateByID returns a copy of items with fn applied to the element whose
// ID is id. items itself is not modified.
func updateByID[T any](items []T, id string, idOf func(T) string, fn func(*T) error) ([]T, error) {
	for i := range items {
		if idOf(items[i]) != id {
			continue
		}
		next := slices.Clone(items)
		if err := fn(&next[i]); err != nil {
			return nil, err
		}
		return next, nil
	}
	return nil, ErrNotFound
}

// appendCopy appends to a fresh backing array so older snapshots sharing
// items never observe the new element.
func appendCopy[T any](items []T, item T) []T {
	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	return append(next, item)
}

func visitorID(v visitor.Visitor) string                { return v.ID }
func residentID(r resident.Resident) string             { return r.ID }
func vehicleID(v resident.Vehicle) string               { return v.ID }
func feedbackID(f feedback.Feedback) string             { return f.ID }
func announcementID(a announcement.Announcement) string { return a.ID }
func facilityID(f facility.Facility) string             { return f.ID }
func bookingID(b facility.BookingSlot) string           { return b.ID }
