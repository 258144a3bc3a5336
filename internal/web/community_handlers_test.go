package web

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/resident"
)

func TestAPIResidents(t *testing.T) {
	srv, _, _ := testServer(t)

	list := decode[[]resident.Resident](t, apiRequest(t, srv, http.MethodGet, "/api/residents", nil))
	assert.Len(t, list, 3)

	w := apiRequest(t, srv, http.MethodPost, "/api/residents", resident.NewResident{
		Name: "Tan Mei Ling", Unit: "D-01-01", ContactNumber: "+60111111111", IsActive: true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[resident.Resident](t, w)
	assert.Equal(t, "RES-001", created.ID)
	assert.Empty(t, created.Vehicles)

	w = apiRequest(t, srv, http.MethodPatch, "/api/residents/"+created.ID, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[resident.Resident](t, w).IsActive)

	w = apiRequest(t, srv, http.MethodPost, "/api/residents", resident.NewResident{Name: "No Unit"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, srv, http.MethodPatch, "/api/residents/RES999", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIVehicles(t *testing.T) {
	srv, st, _ := testServer(t)

	w := apiRequest(t, srv, http.MethodPost, "/api/vehicles", resident.NewVehicle{
		PlateNumber: "WXY 1234", Make: "Proton", Model: "Saga", Color: "White", ResidentID: "RES001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decode[resident.Vehicle](t, w)
	assert.Equal(t, resident.VehiclePending, v.Status)

	owner, ok := st.Snapshot().Resident("RES001")
	require.True(t, ok)
	assert.Equal(t, []string{v.ID}, owner.Vehicles)

	mine := decode[[]resident.Vehicle](t, apiRequest(t, srv, http.MethodGet, "/api/vehicles?resident=RES001", nil))
	assert.Len(t, mine, 1)
	none := apiRequest(t, srv, http.MethodGet, "/api/vehicles?resident=RES002", nil)
	assert.JSONEq(t, "[]", none.Body.String())

	w = apiRequest(t, srv, http.MethodPatch, "/api/vehicles/"+v.ID, map[string]string{"status": "whitelist"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resident.VehicleWhitelist, decode[resident.Vehicle](t, w).Status)

	w = apiRequest(t, srv, http.MethodPatch, "/api/vehicles/"+v.ID, map[string]string{"status": "grey"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, srv, http.MethodPost, "/api/vehicles", resident.NewVehicle{ResidentID: "RES001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIFacilityBooking(t *testing.T) {
	srv, _, _ := testServer(t)

	list := decode[[]facility.Facility](t, apiRequest(t, srv, http.MethodGet, "/api/facilities", nil))
	require.Len(t, list, 3)

	start := time.Date(2024, 1, 20, 14, 0, 0, 0, time.UTC)
	w := apiRequest(t, srv, http.MethodPost, "/api/facilities/FAC001/bookings", facility.BookingRequest{
		ResidentID: "RES001", StartTime: start, EndTime: start.Add(3 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode[facility.BookingSlot](t, w)
	assert.Equal(t, "FAC001", slot.FacilityID)
	assert.Equal(t, facility.BookingPending, slot.Status)
	assert.InDelta(t, 300.0, slot.TotalCost, 0.001)

	w = apiRequest(t, srv, http.MethodPatch, "/api/facilities/FAC001/bookings/"+slot.ID, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, facility.BookingApproved, decode[facility.BookingSlot](t, w).Status)

	w = apiRequest(t, srv, http.MethodPatch, "/api/facilities/FAC001/bookings/BK-999", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = apiRequest(t, srv, http.MethodPost, "/api/facilities/FAC999/bookings", facility.BookingRequest{
		ResidentID: "RES001", StartTime: start, EndTime: start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = apiRequest(t, srv, http.MethodPost, "/api/facilities/FAC001/bookings", facility.BookingRequest{
		ResidentID: "RES001", StartTime: start, EndTime: start,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIFeedback(t *testing.T) {
	srv, _, _ := testServer(t)

	w := apiRequest(t, srv, http.MethodPost, "/api/feedback", feedback.Submission{
		ResidentID: "RES002", Category: feedback.CategoryMaintenance, Subject: "Lift", Description: "Lift B is noisy",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	f := decode[feedback.Feedback](t, w)
	assert.Equal(t, feedback.StatusOpen, f.Status)
	assert.Equal(t, feedback.PriorityMedium, f.Priority)

	w = apiRequest(t, srv, http.MethodPatch, "/api/feedback/"+f.ID, map[string]string{
		"status": "resolved", "adminReply": "Serviced",
	})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[feedback.Feedback](t, w)
	assert.Equal(t, feedback.StatusResolved, got.Status)
	assert.Equal(t, "Serviced", got.AdminReply)

	list := decode[[]feedback.Feedback](t, apiRequest(t, srv, http.MethodGet, "/api/feedback", nil))
	assert.Len(t, list, 1)

	w = apiRequest(t, srv, http.MethodPost, "/api/feedback", feedback.Submission{Subject: "x", Category: "praise"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, srv, http.MethodPatch, "/api/feedback/"+f.ID, map[string]string{"priority": "someday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIAnnouncements(t *testing.T) {
	srv, _, clock := testServer(t)

	expiry := clock.Now().Add(24 * time.Hour)
	w := apiRequest(t, srv, http.MethodPost, "/api/announcements", announcement.Draft{
		Title: "Water cut", Content: "Tomorrow 9-12", Type: announcement.TypeMaintenance,
		IsActive: true, ExpiryDate: &expiry,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	water := decode[announcement.Announcement](t, w)
	assert.Equal(t, announcement.AudienceAll, water.TargetAudience)
	assert.Equal(t, "admin1", water.CreatedBy)
	assert.True(t, water.PublishDate.Equal(clock.Now()))

	w = apiRequest(t, srv, http.MethodPost, "/api/announcements", announcement.Draft{
		Title: "Block C", Content: "Painting", TargetAudience: announcement.AudienceSpecificUnits,
		TargetUnits: []string{"C-08-12"}, IsActive: true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = apiRequest(t, srv, http.MethodPost, "/api/announcements", announcement.Draft{
		Title: "Draft", Content: "Not yet", IsActive: false,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	all := decode[[]announcement.Announcement](t, apiRequest(t, srv, http.MethodGet, "/api/announcements", nil))
	assert.Len(t, all, 3)

	visible := decode[[]announcement.Announcement](t, apiRequest(t, srv, http.MethodGet, "/api/announcements?visible=true", nil))
	assert.Len(t, visible, 2)

	forUnit := decode[[]announcement.Announcement](t, apiRequest(t, srv, http.MethodGet, "/api/announcements?visible=true&unit=B-12-03", nil))
	require.Len(t, forUnit, 1)
	assert.Equal(t, water.ID, forUnit[0].ID)

	clock.Set(expiry.Add(time.Minute))
	visible = decode[[]announcement.Announcement](t, apiRequest(t, srv, http.MethodGet, "/api/announcements?visible=true", nil))
	assert.Len(t, visible, 1)

	w = apiRequest(t, srv, http.MethodPatch, "/api/announcements/"+water.ID, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[announcement.Announcement](t, w).IsActive)

	w = apiRequest(t, srv, http.MethodGet, "/api/announcements?visible=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, srv, http.MethodPost, "/api/announcements", announcement.Draft{Title: "x", Content: "y", Type: "gossip"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
