package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/gatehouse/internal/qrcode"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// apiState returns the whole current snapshot.
func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, s.store.Snapshot(), http.StatusOK)
}

// apiListVisitors returns visitors, optionally filtered by ?status=.
func (s *Server) apiListVisitors(w http.ResponseWriter, r *http.Request) {
	status := visitor.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		apiError(w, "status must be registered, active, completed or overdue", http.StatusBadRequest)
		return
	}
	apiJSON(w, nonNil(s.store.Snapshot().VisitorsByStatus(status)), http.StatusOK)
}

// apiRegisterVisitor registers a visitor and returns the stored record with
// its generated ID and access token.
func (s *Server) apiRegisterVisitor(w http.ResponseWriter, r *http.Request) {
	var reg visitor.Registration
	if err := decodeJSON(r, &reg); err != nil {
		apiFail(w, err)
		return
	}
	if err := reg.Validate(); err != nil {
		apiFail(w, err)
		return
	}

	v, err := s.store.RegisterVisitor(reg)
	if err != nil {
		apiFail(w, err)
		return
	}
	s.logger.Info("visitor registered", "visitor_id", v.ID, "unit", v.VisitingUnit)
	apiJSON(w, v, http.StatusCreated)
}

// apiGetVisitor returns a single visitor.
func (s *Server) apiGetVisitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, ok := s.store.Snapshot().Visitor(id)
	if !ok {
		apiError(w, "visitor not found", http.StatusNotFound)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

// apiUpdateVisitor merges a partial update into a visitor.
func (s *Server) apiUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	var patch visitor.Patch
	if err := decodeJSON(r, &patch); err != nil {
		apiFail(w, err)
		return
	}
	if err := patch.Validate(); err != nil {
		apiFail(w, err)
		return
	}

	v, err := s.store.UpdateVisitor(chi.URLParam(r, "id"), patch)
	if err != nil {
		apiFail(w, err)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

// apiCheckIn checks a registered visitor in. The guard defaults to the
// current user.
func (s *Server) apiCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Guard string `json:"guard"`
	}
	// The body is optional.
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		apiFail(w, err)
		return
	}
	guard := strings.TrimSpace(req.Guard)
	if guard == "" {
		guard = s.store.Snapshot().CurrentUser.Name
	}

	v, err := s.store.CheckIn(chi.URLParam(r, "id"), guard)
	if err != nil {
		apiFail(w, err)
		return
	}
	s.logger.Info("visitor checked in", "visitor_id", v.ID, "guard", guard)
	apiJSON(w, v, http.StatusOK)
}

// apiCheckOut checks an active visitor out.
func (s *Server) apiCheckOut(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.CheckOut(chi.URLParam(r, "id"))
	if err != nil {
		apiFail(w, err)
		return
	}
	s.logger.Info("visitor checked out", "visitor_id", v.ID)
	apiJSON(w, v, http.StatusOK)
}

// apiSweep runs the overdue sweep immediately.
func (s *Server) apiSweep(w http.ResponseWriter, r *http.Request) {
	n := s.sweeper.RunOnce()
	apiJSON(w, map[string]int{"overdue": n}, http.StatusOK)
}

type validateTokenRequest struct {
	Token string `json:"token"`
	Date  string `json:"date"`
}

type validateTokenResponse struct {
	Valid   bool            `json:"valid"`
	Payload *qrcode.Payload `json:"payload,omitempty"`
}

// apiValidateToken decodes an access token and checks it against a visit
// date, today by default.
func (s *Server) apiValidateToken(w http.ResponseWriter, r *http.Request) {
	var req validateTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, err)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		apiError(w, "token is required", http.StatusBadRequest)
		return
	}
	date := req.Date
	if date == "" {
		date = s.today()
	}

	resp := validateTokenResponse{Valid: qrcode.Validate(req.Token, date)}
	if p, err := qrcode.Decode(req.Token); err == nil {
		resp.Payload = p
	}
	apiJSON(w, resp, http.StatusOK)
}
