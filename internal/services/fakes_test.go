package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"clubevents/internal/domain"
)

var errDB = errors.New("db error")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int
	err    error // returned by every method when set
	calls  int
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, includeHidden bool) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Event{}
	for _, e := range f.byID {
		if e.IsHidden && !includeHidden {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	old, ok := f.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	e.CreatedAt = old.CreatedAt
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok
}

// fakeRegistrationStore mirrors the database: (event_id, email) is unique and
// event_id must reference an existing event.
type fakeRegistrationStore struct {
	mu       sync.Mutex
	events   *fakeEventRepo
	byEvent  map[string][]*domain.Registration
	nextID   int
	countErr error
	calls    int
}

func newFakeRegistrationStore(events *fakeEventRepo) *fakeRegistrationStore {
	return &fakeRegistrationStore{events: events, byEvent: make(map[string][]*domain.Registration), nextID: 1}
}

func (f *fakeRegistrationStore) Create(ctx context.Context, r *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if !f.events.has(r.EventID) {
		return domain.ErrNotFound
	}
	for _, existing := range f.byEvent[r.EventID] {
		if existing.Email == r.Email {
			return domain.ErrDuplicateRegistration
		}
	}
	r.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	f.byEvent[r.EventID] = append(f.byEvent[r.EventID], r)
	return nil
}

func (f *fakeRegistrationStore) CountByEvent(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.byEvent[eventID]), nil
}

func (f *fakeRegistrationStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	regs := f.byEvent[eventID]
	out := make([]*domain.Registration, 0, len(regs))
	for i := len(regs) - 1; i >= 0; i-- {
		out = append(out, regs[i])
	}
	return out, nil
}

func (f *fakeRegistrationStore) Exists(ctx context.Context, eventID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, r := range f.byEvent[eventID] {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RegistrationConfirmationEmailData
	err  error
	// release, when set, blocks each send until it is closed.
	release chan struct{}
	done    chan struct{}
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done != nil {
		defer close(f.done)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeMetrics) ObserveRegistration(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}
