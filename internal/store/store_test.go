package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tally-app/tally-cli/internal/api"
	"github.com/tally-app/tally-cli/internal/models"
)

// fakeGateway implements Gateway with per-method hooks so tests can control
// response content, errors, and timing.
type fakeGateway struct {
	listFn    func(ctx context.Context) ([]models.Habit, error)
	getFn     func(ctx context.Context, id string) (models.Habit, error)
	createFn  func(ctx context.Context, draft models.HabitDraft) (models.Habit, error)
	updateFn  func(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error)
	archiveFn func(ctx context.Context, id string) (models.Habit, error)
	deleteFn  func(ctx context.Context, id string) error
	reorderFn func(ctx context.Context, ids []string) error
}

func (g *fakeGateway) ListHabits(ctx context.Context) ([]models.Habit, error) {
	return g.listFn(ctx)
}

func (g *fakeGateway) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	return g.getFn(ctx, id)
}

func (g *fakeGateway) CreateHabit(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
	return g.createFn(ctx, draft)
}

func (g *fakeGateway) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	return g.updateFn(ctx, id, patch)
}

func (g *fakeGateway) ArchiveHabit(ctx context.Context, id string) (models.Habit, error) {
	return g.archiveFn(ctx, id)
}

func (g *fakeGateway) DeleteHabit(ctx context.Context, id string) error {
	return g.deleteFn(ctx, id)
}

func (g *fakeGateway) ReorderHabits(ctx context.Context, ids []string) error {
	return g.reorderFn(ctx, ids)
}

func habit(id, name string, order int) models.Habit {
	return models.Habit{
		ID:        id,
		Name:      name,
		Type:      models.TypePositive,
		Frequency: models.FrequencyDaily,
		SortOrder: order,
	}
}

func TestFetchAllMergesByID(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context) ([]models.Habit, error) {
			return []models.Habit{
				habit("a", "Read (renamed)", 0),
				habit("c", "Stretch", 2),
			}, nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{
		habit("a", "Read", 0),
		habit("b", "Run", 1),
	})

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	snap := s.Snapshot()
	if got, _ := snap.Get("a"); got.Name != "Read (renamed)" {
		t.Errorf("habit a = %q, want server copy %q", got.Name, "Read (renamed)")
	}
	if _, ok := snap.Get("b"); !ok {
		t.Error("habit b dropped by merge; fetch results must merge additively")
	}
	if _, ok := snap.Get("c"); !ok {
		t.Error("habit c missing after fetch")
	}
	if snap.LastFetchedAt.IsZero() {
		t.Error("LastFetchedAt not recorded")
	}
}

func TestFetchAllErrorRetainsCollection(t *testing.T) {
	wantErr := &api.NetworkError{Err: errors.New("connection refused")}
	gw := &fakeGateway{
		listFn: func(ctx context.Context) ([]models.Habit, error) {
			return nil, wantErr
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll() error = nil, want network error")
	}

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("Loading still true after failed fetch")
	}
	if !api.IsNetwork(snap.Err) {
		t.Errorf("Snapshot().Err = %v, want network error", snap.Err)
	}
	if _, ok := snap.Get("a"); !ok {
		t.Error("existing entry dropped on fetch failure")
	}
}

func TestFetchByIDDeduplicatesInflight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	gw := &fakeGateway{
		getFn: func(ctx context.Context, id string) (models.Habit, error) {
			mu.Lock()
			calls++
			if calls == 1 {
				close(started)
			}
			mu.Unlock()
			<-release
			return habit(id, "Read", 0), nil
		},
	}
	s := New(gw)

	var wg sync.WaitGroup
	results := make([]models.Habit, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = s.FetchByID(context.Background(), "a")
	}()
	<-started

	started2 := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started2)
		results[1], errs[1] = s.FetchByID(context.Background(), "a")
	}()
	<-started2
	// Give the second caller time to reach the inflight wait before the
	// gateway responds.
	time.Sleep(10 * time.Millisecond)

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("gateway calls = %d, want 1 (concurrent fetches must share one request)", calls)
	}
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("FetchByID() error = %v", errs[i])
		}
		if results[i].Name != "Read" {
			t.Errorf("result[%d].Name = %q, want %q", i, results[i].Name, "Read")
		}
	}
}

func TestFetchByIDDoesNotClobberPendingMutation(t *testing.T) {
	updateStarted := make(chan struct{})
	updateRelease := make(chan struct{})

	gw := &fakeGateway{
		getFn: func(ctx context.Context, id string) (models.Habit, error) {
			// Server copy that predates the in-flight rename.
			return habit(id, "Old name", 0), nil
		},
		updateFn: func(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
			close(updateStarted)
			<-updateRelease
			return habit(id, *patch.Name, 0), nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		name := "Read more"
		if _, err := s.Update(context.Background(), "a", models.HabitPatch{Name: &name}); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	}()
	<-updateStarted

	// The fetch lands while the rename is still pending; its result must not
	// overwrite the entry the rename is about to confirm.
	if _, err := s.FetchByID(context.Background(), "a"); err != nil {
		t.Fatalf("FetchByID() error = %v", err)
	}
	if got, _ := s.Snapshot().Get("a"); got.Name != "Read" {
		t.Errorf("habit overwritten by fetch during pending mutation: name = %q", got.Name)
	}

	close(updateRelease)
	wg.Wait()

	if got, _ := s.Snapshot().Get("a"); got.Name != "Read more" {
		t.Errorf("final name = %q, want %q", got.Name, "Read more")
	}
}

func TestStaleMutationResponseDiscarded(t *testing.T) {
	type gate struct {
		started chan struct{}
		release chan struct{}
	}
	gates := map[string]*gate{
		"First":  {started: make(chan struct{}), release: make(chan struct{})},
		"Second": {started: make(chan struct{}), release: make(chan struct{})},
	}

	gw := &fakeGateway{
		updateFn: func(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
			g := gates[*patch.Name]
			close(g.started)
			<-g.release
			return habit(id, *patch.Name, 0), nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	var wg sync.WaitGroup
	issue := func(name string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := name
			s.Update(context.Background(), "a", models.HabitPatch{Name: &n})
		}()
		<-gates[name].started
	}

	// First is issued before Second, but its response arrives last.
	issue("First")
	issue("Second")

	close(gates["Second"].release)
	close(gates["First"].release)
	wg.Wait()

	snap := s.Snapshot()
	if got, _ := snap.Get("a"); got.Name != "Second" {
		t.Errorf("name = %q, want %q (stale response must not win)", got.Name, "Second")
	}
	if st := snap.Status("a"); st != models.StatusPristine {
		t.Errorf("status = %q, want pristine after all mutations settle", st)
	}
}

func TestCreateFailureLeavesNoPhantom(t *testing.T) {
	gw := &fakeGateway{
		createFn: func(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
			return models.Habit{}, &api.ValidationError{StatusCode: 422, Fields: map[string]string{"name": "too long"}}
		},
	}
	s := New(gw)

	_, err := s.Create(context.Background(), models.HabitDraft{Name: "x"})
	if !api.IsValidation(err) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}

	snap := s.Snapshot()
	if len(snap.Habits) != 0 {
		t.Errorf("collection has %d entries after rejected create, want 0", len(snap.Habits))
	}
	if snap.PendingCreate {
		t.Error("PendingCreate still set after create settled")
	}
}

func TestCreateInsertsServerRecord(t *testing.T) {
	gw := &fakeGateway{
		createFn: func(ctx context.Context, draft models.HabitDraft) (models.Habit, error) {
			h := habit("h1", draft.Name, 5)
			h.CurrentStreak = 0
			return h, nil
		},
	}
	s := New(gw)

	created, err := s.Create(context.Background(), models.HabitDraft{Name: "Meditate"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != "h1" || created.SortOrder != 5 {
		t.Errorf("created = %+v, want server-assigned id h1 and sort order 5", created)
	}
	if got, ok := s.Snapshot().Get("h1"); !ok || got.Name != "Meditate" {
		t.Errorf("collection entry = %+v, ok=%v", got, ok)
	}
}

func TestDeleteRemovesOnlyOnConfirmation(t *testing.T) {
	fail := true
	gw := &fakeGateway{
		deleteFn: func(ctx context.Context, id string) error {
			if fail {
				return &api.NetworkError{Err: errors.New("timeout")}
			}
			return nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	if err := s.Delete(context.Background(), "a"); err == nil {
		t.Fatal("Delete() error = nil, want network error")
	}
	if _, ok := s.Snapshot().Get("a"); !ok {
		t.Fatal("entry removed on failed delete; removal must wait for confirmation")
	}

	fail = false
	if err := s.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	snap := s.Snapshot()
	if _, ok := snap.Get("a"); ok {
		t.Error("entry still present after confirmed delete")
	}
	if _, ok := snap.Statuses["a"]; ok {
		t.Error("status bookkeeping left behind after delete")
	}
}

func TestMutationOnAbsentIDIsNotFound(t *testing.T) {
	called := false
	gw := &fakeGateway{
		updateFn: func(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
			called = true
			return models.Habit{}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			called = true
			return nil
		},
	}
	s := New(gw)

	name := "x"
	if _, err := s.Update(context.Background(), "ghost", models.HabitPatch{Name: &name}); !api.IsNotFound(err) {
		t.Errorf("Update(absent) error = %v, want not-found", err)
	}
	if err := s.Delete(context.Background(), "ghost"); !api.IsNotFound(err) {
		t.Errorf("Delete(absent) error = %v, want not-found", err)
	}
	if called {
		t.Error("gateway called for an id the store does not hold")
	}
}

func TestArchiveAppliesServerRecord(t *testing.T) {
	gw := &fakeGateway{
		archiveFn: func(ctx context.Context, id string) (models.Habit, error) {
			h := habit(id, "Read", 0)
			h.Archived = true
			return h, nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	archived, err := s.Archive(context.Background(), "a")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !archived.Archived {
		t.Error("returned habit not archived")
	}
	if got, _ := s.Snapshot().Get("a"); !got.Archived {
		t.Error("collection entry not archived")
	}
}

func TestUpdateOrderRollsBackOnFailure(t *testing.T) {
	fail := true
	var sent []string
	gw := &fakeGateway{
		reorderFn: func(ctx context.Context, ids []string) error {
			sent = append([]string(nil), ids...)
			if fail {
				return &api.NetworkError{Err: errors.New("timeout")}
			}
			return nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{
		habit("a", "Read", 0),
		habit("b", "Run", 1),
		habit("c", "Stretch", 2),
	})

	newOrder := []string{"c", "a", "b"}
	if err := s.UpdateOrder(context.Background(), newOrder); err == nil {
		t.Fatal("UpdateOrder() error = nil, want network error")
	}

	// Rolled back to the exact previous ordering, not merely some ordering.
	snap := s.Snapshot()
	for i, id := range []string{"a", "b", "c"} {
		if got, _ := snap.Get(id); got.SortOrder != i {
			t.Errorf("after rollback %s.SortOrder = %d, want %d", id, got.SortOrder, i)
		}
	}

	fail = false
	if err := s.UpdateOrder(context.Background(), newOrder); err != nil {
		t.Fatalf("UpdateOrder() error = %v", err)
	}
	if len(sent) != 3 || sent[0] != "c" {
		t.Errorf("gateway received ids %v, want %v", sent, newOrder)
	}
	active := s.Snapshot().Active()
	wantOrder := []string{"c", "a", "b"}
	for i, h := range active {
		if h.ID != wantOrder[i] {
			t.Errorf("active[%d] = %s, want %s", i, h.ID, wantOrder[i])
		}
	}
}

func TestUpdateOrderRejectsUnknownID(t *testing.T) {
	called := false
	gw := &fakeGateway{
		reorderFn: func(ctx context.Context, ids []string) error {
			called = true
			return nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	if err := s.UpdateOrder(context.Background(), []string{"a", "ghost"}); !api.IsNotFound(err) {
		t.Errorf("UpdateOrder() error = %v, want not-found", err)
	}
	if called {
		t.Error("gateway called with an unknown id")
	}
}

func TestErrorClearedOnSuccess(t *testing.T) {
	fail := true
	gw := &fakeGateway{
		listFn: func(ctx context.Context) ([]models.Habit, error) {
			if fail {
				return nil, &api.NetworkError{Err: errors.New("connection refused")}
			}
			return []models.Habit{habit("a", "Read", 0)}, nil
		},
	}
	s := New(gw)

	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll() error = nil, want network error")
	}
	if s.Snapshot().Err == nil {
		t.Fatal("Snapshot().Err = nil after failed fetch")
	}

	fail = false
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if err := s.Snapshot().Err; err != nil {
		t.Errorf("Snapshot().Err = %v after successful fetch, want nil", err)
	}
}

func TestErrorClearedByLaterMutation(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(ctx context.Context) ([]models.Habit, error) {
			return nil, &api.NetworkError{Err: errors.New("connection refused")}
		},
		updateFn: func(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
			return habit(id, "Read more", 0), nil
		},
	}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll() error = nil, want network error")
	}

	name := "Read more"
	if _, err := s.Update(context.Background(), "a", models.HabitPatch{Name: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := s.Snapshot().Err; err != nil {
		t.Errorf("Snapshot().Err = %v after successful update, want nil", err)
	}
}

func TestHydrateDoesNotOverwriteFetchedEntries(t *testing.T) {
	gw := &fakeGateway{}
	s := New(gw)
	s.Hydrate([]models.Habit{habit("a", "Read", 0)})

	// A second hydration (e.g. stale cache) must not clobber what is there.
	s.Hydrate([]models.Habit{habit("a", "Stale cached name", 9)})

	if got, _ := s.Snapshot().Get("a"); got.Name != "Read" {
		t.Errorf("name = %q, want original %q", got.Name, "Read")
	}
}
