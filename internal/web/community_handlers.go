package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/resident"
	"github.com/evcraddock/gatehouse/internal/store"
)

func (s *Server) apiListResidents(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, nonNil(s.store.Snapshot().Residents), http.StatusOK)
}

func (s *Server) apiAddResident(w http.ResponseWriter, r *http.Request) {
	var req resident.NewResident
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Unit) == "" {
		apiFail(w, invalid("name and unit are required"))
		return
	}

	res, err := s.store.AddResident(req)
	if err != nil {
		apiFail(w, err)
		return
	}
	apiJSON(w, res, http.StatusCreated)
}

func (s *Server) apiUpdateResident(w http.ResponseWriter, r *http.Request) {
	var patch resident.Patch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	next, err := s.store.Dispatch(store.UpdateResident{ID: id, Patch: patch})
	if err != nil {
		apiFail(w, err)
		return
	}
	res, _ := next.Resident(id)
	apiJSON(w, res, http.StatusOK)
}

// apiListVehicles returns vehicles, optionally only those of ?resident=.
func (s *Server) apiListVehicles(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if rid := r.URL.Query().Get("resident"); rid != "" {
		apiJSON(w, nonNil(snap.VehiclesOf(rid)), http.StatusOK)
		return
	}
	apiJSON(w, nonNil(snap.Vehicles), http.StatusOK)
}

func (s *Server) apiAddVehicle(w http.ResponseWriter, r *http.Request) {
	var req resident.NewVehicle
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	if strings.TrimSpace(req.PlateNumber) == "" {
		apiFail(w, invalid("plateNumber is required"))
		return
	}
	if req.Status != "" && !req.Status.IsValid() {
		apiFail(w, invalid("status must be whitelist, blacklist or pending"))
		return
	}

	v, err := s.store.AddVehicle(req)
	if err != nil {
		apiFail(w, err)
		return
	}
	apiJSON(w, v, http.StatusCreated)
}

func (s *Server) apiUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var patch resident.VehiclePatch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		apiFail(w, invalid("status must be whitelist, blacklist or pending"))
		return
	}

	id := chi.URLParam(r, "id")
	next, err := s.store.Dispatch(store.UpdateVehicle{ID: id, Patch: patch})
	if err != nil {
		apiFail(w, err)
		return
	}
	v, _ := find(next.Vehicles, id, func(v resident.Vehicle) string { return v.ID })
	apiJSON(w, v, http.StatusOK)
}

func (s *Server) apiListFacilities(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, nonNil(s.store.Snapshot().Facilities), http.StatusOK)
}

// apiBookFacility creates a pending booking priced at the facility's
// hourly rate.
func (s *Server) apiBookFacility(w http.ResponseWriter, r *http.Request) {
	var req facility.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	req.FacilityID = chi.URLParam(r, "id")
	if strings.TrimSpace(req.ResidentID) == "" {
		apiFail(w, invalid("residentId is required"))
		return
	}
	if !req.EndTime.After(req.StartTime) {
		apiFail(w, invalid("endTime must be after startTime"))
		return
	}

	slot, err := s.store.BookFacility(req)
	if err != nil {
		apiFail(w, err)
		return
	}
	s.logger.Info("facility booked", "facility_id", slot.FacilityID, "booking_id", slot.ID)
	apiJSON(w, slot, http.StatusCreated)
}

func (s *Server) apiUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var patch facility.BookingPatch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		apiFail(w, invalid("status must be pending, approved, rejected or completed"))
		return
	}

	facilityID, bookingID := chi.URLParam(r, "id"), chi.URLParam(r, "bookingID")
	next, err := s.store.Dispatch(store.UpdateBooking{FacilityID: facilityID, BookingID: bookingID, Patch: patch})
	if err != nil {
		apiFail(w, err)
		return
	}
	f, _ := next.Facility(facilityID)
	slot, _ := find(f.BookingSlots, bookingID, func(b facility.BookingSlot) string { return b.ID })
	apiJSON(w, slot, http.StatusOK)
}

func (s *Server) apiListFeedback(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, nonNil(s.store.Snapshot().Feedback), http.StatusOK)
}

func (s *Server) apiAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedback.Submission
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		apiFail(w, invalid("subject is required"))
		return
	}
	if !req.Category.IsValid() {
		apiFail(w, invalid("category must be complaint, suggestion, maintenance, security or other"))
		return
	}
	if req.Status != "" && !req.Status.IsValid() {
		apiFail(w, invalid("invalid status %q", req.Status))
		return
	}
	if req.Priority != "" && !req.Priority.IsValid() {
		apiFail(w, invalid("invalid priority %q", req.Priority))
		return
	}

	f, err := s.store.AddFeedback(req)
	if err != nil {
		apiFail(w, err)
		return
	}
	apiJSON(w, f, http.StatusCreated)
}

func (s *Server) apiUpdateFeedback(w http.ResponseWriter, r *http.Request) {
	var patch feedback.Patch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		apiFail(w, invalid("invalid status %q", *patch.Status))
		return
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		apiFail(w, invalid("invalid priority %q", *patch.Priority))
		return
	}

	id := chi.URLParam(r, "id")
	next, err := s.store.Dispatch(store.UpdateFeedback{ID: id, Patch: patch})
	if err != nil {
		apiFail(w, err)
		return
	}
	f, _ := find(next.Feedback, id, func(f feedback.Feedback) string { return f.ID })
	apiJSON(w, f, http.StatusOK)
}

// apiListAnnouncements returns announcements. ?visible=true keeps only
// active, unexpired ones; ?unit= keeps only those addressed to a unit.
func (s *Server) apiListAnnouncements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	visibleOnly := false
	switch q.Get("visible") {
	case "":
	case "true":
		visibleOnly = true
	case "false":
	default:
		apiError(w, "visible must be true or false", http.StatusBadRequest)
		return
	}
	unit := q.Get("unit")

	now := s.now()
	out := []announcement.Announcement{}
	for _, a := range s.store.Snapshot().Announcements {
		if visibleOnly && !a.IsVisible(now) {
			continue
		}
		if unit != "" && !a.Targets(unit) {
			continue
		}
		out = append(out, a)
	}
	apiJSON(w, out, http.StatusOK)
}

func (s *Server) apiAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcement.Draft
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		apiFail(w, invalid("title and content are required"))
		return
	}
	if req.Type == "" {
		req.Type = announcement.TypeGeneral
	}
	if req.TargetAudience == "" {
		req.TargetAudience = announcement.AudienceAll
	}
	if !req.Type.IsValid() {
		apiFail(w, invalid("invalid type %q", req.Type))
		return
	}
	if !req.TargetAudience.IsValid() {
		apiFail(w, invalid("invalid targetAudience %q", req.TargetAudience))
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = s.store.Snapshot().CurrentUser.ID
	}

	a, err := s.store.AddAnnouncement(req)
	if err != nil {
		apiFail(w, err)
		return
	}
	apiJSON(w, a, http.StatusCreated)
}

func (s *Server) apiUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var patch announcement.Patch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}
	if patch.Type != nil && !patch.Type.IsValid() {
		apiFail(w, invalid("invalid type %q", *patch.Type))
		return
	}
	if patch.TargetAudience != nil && !patch.TargetAudience.IsValid() {
		apiFail(w, invalid("invalid targetAudience %q", *patch.TargetAudience))
		return
	}

	id := chi.URLParam(r, "id")
	next, err := s.store.Dispatch(store.UpdateAnnouncement{ID: id, Patch: patch})
	if err != nil {
		apiFail(w, err)
		return
	}
	a, _ := find(next.Announcements, id, func(a announcement.Announcement) string { return a.ID })
	apiJSON(w, a, http.StatusOK)
}
