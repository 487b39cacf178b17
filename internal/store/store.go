package store

import (
	"context"
	"sync"
	"time"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/logger"
	"github.com/tally-app/tally-cli/internal/models"
)

// Gateway is the remote habit service as consumed by the store. The concrete
// implementation is api.Client; tests substitute a fake.
type Gateway interface {
	ListHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error)
	UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error)
	ArchiveHabit(ctx context.Context, id string) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
	ReorderHabits(ctx context.Context, orderedIDs []string) error
}

// fetchCall tracks a single in-flight GetHabit request so that concurrent
// callers for the same id share one network round trip.
type fetchCall struct {
	done  chan struct{}
	habit models.Habit
	err   error
}

// Store is the single source of truth for habit data on the client. All
// reads and writes against the remote gateway are funneled through it, and
// readers only ever observe point-in-time snapshots.
//
// Responses can arrive out of order relative to request issuance, so every
// mutation is tagged with a per-entity sequence number taken at issue time;
// a response older than the entity's currently applied sequence is
// discarded. ListHabits results are exempt: they are a server snapshot and
// always merge by id.
type Store struct {
	gw Gateway

	mu             sync.Mutex
	habits         map[string]models.Habit
	statuses       map[string]models.EntityStatus
	issued         map[string]uint64 // last issued mutation sequence per id
	applied        map[string]uint64 // last resolved mutation sequence per id
	inflight       map[string]*fetchCall
	loading        int // outstanding bulk fetches
	pendingCreates int
	lastErr        error
	lastFetchedAt  time.Time
}

// New creates a store backed by the given gateway.
func New(gw Gateway) *Store {
	return &Store{
		gw:       gw,
		habits:   make(map[string]models.Habit),
		statuses: make(map[string]models.EntityStatus),
		issued:   make(map[string]uint64),
		applied:  make(map[string]uint64),
		inflight: make(map[string]*fetchCall),
	}
}

// Hydrate seeds the collection from a local cache before the first fetch.
// Entries already present (e.g. from an earlier fetch) are left untouched.
func (s *Store) Hydrate(habits []models.Habit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range habits {
		if _, ok := s.habits[h.ID]; !ok {
			s.habits[h.ID] = h
		}
	}
}

// FetchAll requests the full active habit set and union-merges the result
// into the collection keyed by id. Entries the response does not mention are
// kept; a habit removed by another session disappears only via its own 404.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	habits, err := s.gw.ListHabits(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = err
		return err
	}
	for _, h := range habits {
		s.habits[h.ID] = h
	}
	s.lastErr = nil
	s.lastFetchedAt = time.Now()
	return nil
}

// FetchByID requests a single habit. If a fetch for the same id is already
// in flight the call waits on it instead of issuing a duplicate request. On
// failure any existing entry for the id is retained.
func (s *Store) FetchByID(ctx context.Context, id string) (models.Habit, error) {
	s.mu.Lock()
	if call, ok := s.inflight[id]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.habit, call.err
		case <-ctx.Done():
			return models.Habit{}, &api.NetworkError{Err: ctx.Err()}
		}
	}
	call := &fetchCall{done: make(chan struct{})}
	s.inflight[id] = call
	s.mu.Unlock()

	habit, err := s.gw.GetHabit(ctx, id)

	s.mu.Lock()
	delete(s.inflight, id)
	if err != nil {
		s.lastErr = err
	} else {
		s.lastErr = nil
		if s.issued[id] == s.applied[id] {
			// A fetch must not clobber the eventual result of an in-flight
			// mutation on the same id; the mutation was issued later and wins.
			s.habits[id] = habit
		}
	}
	call.habit, call.err = habit, err
	close(call.done)
	s.mu.Unlock()

	return habit, err
}

// Create submits a draft. The local collection is only touched on confirmed
// success, so a rejected create never leaves a phantom habit behind.
func (s *Store) Create(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	s.mu.Lock()
	s.pendingCreates++
	s.mu.Unlock()

	habit, err := s.gw.CreateHabit(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingCreates--
	if err != nil {
		s.lastErr = err
		return models.Habit{}, err
	}
	s.habits[habit.ID] = habit
	s.lastErr = nil
	return habit, nil
}

// Update applies a partial update. On success the server's record replaces
// the local entry wholesale so the client never drifts from server truth.
func (s *Store) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	seq, err := s.beginMutation(id, models.StatusUpdating)
	if err != nil {
		return models.Habit{}, err
	}

	habit, gwErr := s.gw.UpdateHabit(ctx, id, patch)
	if gwErr != nil {
		s.failMutation(id, seq, gwErr)
		return models.Habit{}, gwErr
	}
	if s.resolveMutation(id, seq) {
		s.mu.Lock()
		s.habits[id] = habit
		s.mu.Unlock()
	} else {
		logger.Debug("Discarded stale update response", "id", id, "seq", seq)
	}
	return habit, nil
}

// Archive marks a habit archived, with the same confirmation discipline as
// Update. The archived flag never reverts locally except via a disagreeing
// fetch.
func (s *Store) Archive(ctx context.Context, id string) (models.Habit, error) {
	seq, err := s.beginMutation(id, models.StatusUpdating)
	if err != nil {
		return models.Habit{}, err
	}

	habit, gwErr := s.gw.ArchiveHabit(ctx, id)
	if gwErr != nil {
		s.failMutation(id, seq, gwErr)
		return models.Habit{}, gwErr
	}
	if s.resolveMutation(id, seq) {
		s.mu.Lock()
		s.habits[id] = habit
		s.mu.Unlock()
	}
	return habit, nil
}

// Delete removes a habit from the collection only after the gateway confirms
// the deletion. A failed delete leaves the entry untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	seq, err := s.beginMutation(id, models.StatusDeleting)
	if err != nil {
		return err
	}

	if gwErr := s.gw.DeleteHabit(ctx, id); gwErr != nil {
		s.failMutation(id, seq, gwErr)
		return gwErr
	}
	if s.resolveMutation(id, seq) {
		s.mu.Lock()
		delete(s.habits, id)
		delete(s.statuses, id)
		s.mu.Unlock()
	}
	return nil
}

// UpdateOrder assigns new sort orders from the given full ordered sequence
// of active habit ids and persists them. The assignment is applied
// optimistically so drag-style reordering stays responsive; on failure the
// previous ordering is restored exactly.
func (s *Store) UpdateOrder(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	for _, id := range orderedIDs {
		if _, ok := s.habits[id]; !ok {
			s.mu.Unlock()
			return &api.NotFoundError{Resource: "habit", ID: id}
		}
	}
	prev := make(map[string]int, len(orderedIDs))
	for _, id := range orderedIDs {
		prev[id] = s.habits[id].SortOrder
	}
	for i, id := range orderedIDs {
		h := s.habits[id]
		h.SortOrder = i
		s.habits[id] = h
	}
	s.mu.Unlock()

	err := s.gw.ReorderHabits(ctx, orderedIDs)
	if err != nil {
		s.mu.Lock()
		for id, order := range prev {
			if h, ok := s.habits[id]; ok {
				h.SortOrder = order
				s.habits[id] = h
			}
		}
		s.lastErr = err
		s.mu.Unlock()
		logger.Warn("Reorder rejected, rolled back", "error", err)
		return err
	}
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// beginMutation checks the entity exists locally, assigns the next sequence
// number for the id, and flags its status.
func (s *Store) beginMutation(id string, status models.EntityStatus) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return 0, &api.NotFoundError{Resource: "habit", ID: id}
	}
	s.issued[id]++
	s.statuses[id] = status
	return s.issued[id], nil
}

// resolveMutation records a successful response and reports whether it may
// be applied. A response older than the entity's applied sequence is stale.
func (s *Store) resolveMutation(id string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied[id] {
		return false
	}
	s.applied[id] = seq
	if s.issued[id] == s.applied[id] {
		s.statuses[id] = models.StatusPristine
	}
	s.lastErr = nil
	return true
}

// failMutation records a failed response. The entity keeps its
// pre-operation value; only bookkeeping advances.
func (s *Store) failMutation(id string, seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.applied[id] {
		s.applied[id] = seq
	}
	if s.issued[id] == s.applied[id] {
		s.statuses[id] = models.StatusPristine
	}
	s.lastErr = err
}
