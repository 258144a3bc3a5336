package sweep

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func registration(date, clock string) visitor.Registration {
	return visitor.Registration{
		VisitorName:          "Jane Doe",
		ContactNumber:        "+60123000000",
		VisitingUnit:         "B-1",
		ResidentName:         "Ahmad Hassan",
		VisitDate:            date,
		VisitTime:            clock,
		PurposeOfVisit:       "Visit",
		NumberOfVisitors:     1,
		IdentificationNumber: "A1",
		IdentificationType:   "passport",
	}
}

func activeVisitor(t *testing.T, st *store.Store, date, clock string) visitor.Visitor {
	t.Helper()
	v, err := st.RegisterVisitor(registration(date, clock))
	require.NoError(t, err)
	v, err = st.CheckIn(v.ID, "G1")
	require.NoError(t, err)
	return v
}

func status(t *testing.T, st *store.Store, id string) visitor.Status {
	t.Helper()
	v, ok := st.Snapshot().Visitor(id)
	require.True(t, ok)
	return v.Status
}

func TestRunOnceMarksOverdueAfterWindow(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")

	c := &clock{t: time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)}
	sw := New(st, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))

	assert.Equal(t, 0, sw.RunOnce())
	assert.Equal(t, visitor.StatusActive, status(t, st, v.ID))

	c.Set(time.Date(2024, 1, 15, 17, 0, 1, 0, time.UTC))
	assert.Equal(t, 1, sw.RunOnce())
	assert.Equal(t, visitor.StatusOverdue, status(t, st, v.ID))

	// Already overdue visitors are not examined again.
	assert.Equal(t, 0, sw.RunOnce())
}

func TestRunOnceSkipsNonActive(t *testing.T) {
	st := store.New(store.WithLogger(quiet))

	registered, err := st.RegisterVisitor(registration("2024-01-15", "09:00"))
	require.NoError(t, err)

	completed := activeVisitor(t, st, "2024-01-15", "09:00")
	_, err = st.CheckOut(completed.ID)
	require.NoError(t, err)

	c := &clock{t: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	sw := New(st, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))

	assert.Equal(t, 0, sw.RunOnce())
	assert.Equal(t, visitor.StatusRegistered, status(t, st, registered.ID))
	assert.Equal(t, visitor.StatusCompleted, status(t, st, completed.ID))
}

func TestRunOnceUsesConfiguredDuration(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")

	c := &clock{t: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}

	long := New(st, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))
	assert.Equal(t, 0, long.RunOnce())

	short := New(st, WithClock(c.Now), WithLocation(time.UTC), WithMaxDuration(2*time.Hour), WithLogger(quiet))
	assert.Equal(t, 1, short.RunOnce())
	assert.Equal(t, visitor.StatusOverdue, status(t, st, v.ID))
}

func TestRunOnceIgnoresUnparseableSchedule(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")
	bad := "someday"
	_, err := st.UpdateVisitor(v.ID, visitor.Patch{VisitDate: &bad})
	require.NoError(t, err)

	sw := New(st, WithLogger(quiet))
	assert.Equal(t, 0, sw.RunOnce())
	assert.Equal(t, visitor.StatusActive, status(t, st, v.ID))
}

// racingStore checks every visitor out just before the sweep's dispatch.
type racingStore struct {
	*store.Store
}

func (r racingStore) Dispatch(in store.Intent) (*store.State, error) {
	if u, ok := in.(store.UpdateVisitor); ok {
		if _, err := r.Store.CheckOut(u.ID); err != nil {
			return nil, err
		}
	}
	return r.Store.Dispatch(in)
}

func TestRunOnceLosesRaceToCheckOut(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")

	c := &clock{t: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)}
	sw := New(racingStore{st}, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))

	assert.Equal(t, 0, sw.RunOnce())
	assert.Equal(t, visitor.StatusCompleted, status(t, st, v.ID))
}

// countingStore counts dispatched intents.
type countingStore struct {
	*store.Store
	n atomic.Int64
}

func (c *countingStore) Dispatch(in store.Intent) (*store.State, error) {
	c.n.Add(1)
	return c.Store.Dispatch(in)
}

func TestStartStop(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")
	cs := &countingStore{Store: st}

	sw := New(cs, WithInterval(5*time.Millisecond), WithLocation(time.UTC), WithLogger(quiet))
	require.False(t, sw.Running())

	sw.Start(context.Background())
	sw.Start(context.Background())
	require.True(t, sw.Running())

	require.Eventually(t, func() bool {
		return status(t, st, v.ID) == visitor.StatusOverdue
	}, time.Second, 5*time.Millisecond)

	sw.Stop()
	require.False(t, sw.Running())
	sw.Stop()

	// Nothing dispatches after Stop, even with new overdue visitors.
	activeVisitor(t, st, "2024-01-15", "09:00")
	before := cs.n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, cs.n.Load())

	// Start after Stop re-arms the sweep.
	sw.Start(context.Background())
	defer sw.Stop()
	require.Eventually(t, func() bool {
		return cs.n.Load() > before
	}, time.Second, 5*time.Millisecond)
}

func TestStartStopsWithParentContext(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	sw := New(st, WithInterval(time.Millisecond), WithLocation(time.UTC), WithLogger(quiet))

	ctx, cancel := context.WithCancel(context.Background())
	sw.Start(ctx)
	cancel()

	// Stop still returns once the loop has exited on its own.
	done := make(chan struct{})
	go func() {
		sw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestStartAfterParentCancelRearms(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	sw := New(st, WithInterval(time.Millisecond), WithLocation(time.UTC), WithLogger(quiet))

	ctx, cancel := context.WithCancel(context.Background())
	sw.Start(ctx)
	require.True(t, sw.Running())
	cancel()

	require.Eventually(t, func() bool { return !sw.Running() }, time.Second, time.Millisecond)

	v := activeVisitor(t, st, "2024-01-15", "09:00")
	sw.Start(context.Background())
	defer sw.Stop()
	require.True(t, sw.Running())
	require.Eventually(t, func() bool {
		return status(t, st, v.ID) == visitor.StatusOverdue
	}, time.Second, time.Millisecond)
}

// staleStore always hands out the snapshot it was created with.
type staleStore struct {
	*store.Store
	snap *store.State
}

func (s staleStore) Snapshot() *store.State { return s.snap }

func TestOverlappingSweepsCountOnce(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	v := activeVisitor(t, st, "2024-01-15", "09:00")
	stale := staleStore{Store: st, snap: st.Snapshot()}

	c := &clock{t: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)}
	first := New(st, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))
	second := New(stale, WithClock(c.Now), WithLocation(time.UTC), WithLogger(quiet))

	require.Equal(t, 1, first.RunOnce())
	marked, ok := st.Snapshot().Visitor(v.ID)
	require.True(t, ok)

	c.Set(c.Now().Add(time.Minute))
	assert.Equal(t, 0, second.RunOnce())

	after, ok := st.Snapshot().Visitor(v.ID)
	require.True(t, ok)
	assert.Equal(t, visitor.StatusOverdue, after.Status)
	assert.Equal(t, marked.UpdatedAt, after.UpdatedAt)
}

func TestRunReturnsOnCancel(t *testing.T) {
	st := store.New(store.WithLogger(quiet))
	sw := New(st, WithInterval(time.Millisecond), WithLogger(quiet))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, sw.Run(ctx))
}
