package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/gatehouse/internal/announcement"
	"github.com/evcraddock/gatehouse/internal/facility"
	"github.com/evcraddock/gatehouse/internal/feedback"
	"github.com/evcraddock/gatehouse/internal/metrics"
	"github.com/evcraddock/gatehouse/internal/qrcode"
	"github.com/evcraddock/gatehouse/internal/resident"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// Store owns the current snapshot. Dispatch applies intents one at a time in
// call order; Snapshot may be called concurrently with Dispatch.
type Store struct {
	mu      sync.Mutex // serializes Dispatch
	current atomic.Pointer[State]

	now          func() time.Time
	newID        func(prefix string) string
	newVisitorID func() string
	logger       *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs sets the ID generators for visitors and other records.
func WithIDs(newID func(prefix string) string, newVisitorID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
		if newVisitorID != nil {
			s.newVisitorID = newVisitorID
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithState sets the initial snapshot.
func WithState(state *State) Option {
	return func(s *Store) { s.current.Store(state) }
}

// New creates a store holding an empty snapshot.
func New(opts ...Option) *Store {
	s := &Store{
		now:          time.Now,
		newID:        newID,
		newVisitorID: qrcode.GenerateVisitorID,
		logger:       slog.Default(),
	}
	s.current.Store(emptyState())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyState() *State {
	return &State{
		Visitors:      []visitor.Visitor{},
		Residents:     []resident.Resident{},
		Vehicles:      []resident.Vehicle{},
		Facilities:    []facility.Facility{},
		Feedback:      []feedback.Feedback{},
		Announcements: []announcement.Announcement{},
		CurrentUser:   DefaultUser,
	}
}

// newID returns a prefixed random record ID.
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *State {
	return s.current.Load()
}

// Dispatch applies in to the current snapshot and publishes the result. It
// returns the snapshot after the intent. A non-nil error reports a no-op
// (ErrNotFound, ErrInvalidTransition); the returned snapshot is then the
// unchanged current one.
func (s *Store) Dispatch(in Intent) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	env := Env{Now: s.now(), NewID: s.newID, NewVisitorID: s.newVisitorID}

	next, err := Apply(prev, in, env)
	if err != nil {
		metrics.ObserveIntent(in.Name(), resultLabel(err))
		s.logger.Debug("intent ignored", "intent", in.Name(), "reason", err.Error())
		return prev, err
	}

	s.current.Store(next)
	metrics.ObserveIntent(in.Name(), "applied")
	metrics.SetVisitors(statusLabels(next))
	s.logger.Debug("intent applied", "intent", in.Name())
	return next, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}

func statusLabels(s *State) map[string]int {
	counts := s.StatusCounts()
	out := make(map[string]int, len(counts))
	for st, n := range counts {
		out[string(st)] = n
	}
	return out
}

// RegisterVisitor registers a visitor and returns the stored record,
// including the ID and access token generated for it.
func (s *Store) RegisterVisitor(reg visitor.Registration) (visitor.Visitor, error) {
	next, err := s.Dispatch(RegisterVisitor{Registration: reg})
	if err != nil {
		return visitor.Visitor{}, fmt.Errorf("registering visitor: %w", err)
	}
	return next.Visitors[len(next.Visitors)-1], nil
}

// CheckIn checks a registered visitor in under guard.
func (s *Store) CheckIn(id, guard string) (visitor.Visitor, error) {
	return s.visitorAfter(id, CheckInVisitor{ID: id, GuardOnDuty: guard})
}

// CheckOut checks an active visitor out.
func (s *Store) CheckOut(id string) (visitor.Visitor, error) {
	return s.visitorAfter(id, CheckOutVisitor{ID: id})
}

// UpdateVisitor merges patch into a visitor.
func (s *Store) UpdateVisitor(id string, patch visitor.Patch) (visitor.Visitor, error) {
	return s.visitorAfter(id, UpdateVisitor{ID: id, Patch: patch})
}

func (s *Store) visitorAfter(id string, in Intent) (visitor.Visitor, error) {
	next, err := s.Dispatch(in)
	if err != nil {
		return visitor.Visitor{}, err
	}
	v, _ := next.Visitor(id)
	return v, nil
}

// AddResident adds a resident and returns the stored record.
func (s *Store) AddResident(r resident.NewResident) (resident.Resident, error) {
	next, err := s.Dispatch(AddResident{Resident: r})
	if err != nil {
		return resident.Resident{}, err
	}
	return next.Residents[len(next.Residents)-1], nil
}

// AddVehicle adds a vehicle and returns the stored record.
func (s *Store) AddVehicle(v resident.NewVehicle) (resident.Vehicle, error) {
	next, err := s.Dispatch(AddVehicle{Vehicle: v})
	if err != nil {
		return resident.Vehicle{}, err
	}
	return next.Vehicles[len(next.Vehicles)-1], nil
}

// AddFeedback records feedback and returns the stored record.
func (s *Store) AddFeedback(f feedback.Submission) (feedback.Feedback, error) {
	next, err := s.Dispatch(AddFeedback{Feedback: f})
	if err != nil {
		return feedback.Feedback{}, err
	}
	return next.Feedback[len(next.Feedback)-1], nil
}

// AddAnnouncement publishes an announcement and returns the stored record.
func (s *Store) AddAnnouncement(d announcement.Draft) (announcement.Announcement, error) {
	next, err := s.Dispatch(AddAnnouncement{Announcement: d})
	if err != nil {
		return announcement.Announcement{}, err
	}
	return next.Announcements[len(next.Announcements)-1], nil
}

// BookFacility reserves a facility and returns the pending booking.
func (s *Store) BookFacility(req facility.BookingRequest) (facility.BookingSlot, error) {
	next, err := s.Dispatch(BookFacility{Booking: req})
	if err != nil {
		return facility.BookingSlot{}, err
	}
	f, _ := next.Facility(req.FacilityID)
	return f.BookingSlots[len(f.BookingSlots)-1], nil
}
