package adminview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUser struct {
	ID   string
	Name string
}

func (u fakeUser) EntityID() string { return u.ID }

type fakeDraft struct {
	Name string
}

type listCall struct {
	page, limit int
	search      string
	filters     map[string]string
}

// fakeBackend implements Service[fakeUser, fakeDraft] over an in-memory
// slice, so pagination and deletion behave like the real backing store.
type fakeBackend struct {
	mu          sync.Mutex
	users       []fakeUser
	listCalls   []listCall
	deleteCalls int
	updateCalls int
	listErr     error
	updateErr   error
	deleteErr   error
	// gates, when non-empty, block successive List calls until the matching
	// channel is closed. Used to force response ordering.
	gates []chan struct{}
}

func (f *fakeBackend) List(_ context.Context, page, limit int, search string, filters map[string]string) ([]fakeUser, int, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, listCall{page: page, limit: limit, search: search, filters: filters})
	var gate chan struct{}
	if n := len(f.listCalls) - 1; n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, 0, f.listErr
	}

	var matched []fakeUser
	for _, u := range f.users {
		if search == "" || strings.Contains(u.Name, search) {
			matched = append(matched, u)
		}
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeBackend) Update(_ context.Context, id string, draft fakeDraft) (*fakeUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Name = draft.Name
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeBackend) lastCall() listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func makeUsers(n int) []fakeUser {
	users := make([]fakeUser, n)
	for i := range users {
		users[i] = fakeUser{ID: fmt.Sprintf("u%02d", i+1), Name: fmt.Sprintf("User %02d", i+1)}
	}
	return users
}

func waitReady[T Entity, D any](t *testing.T, c *Controller[T, D]) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State().Phase == PhaseReady
	}, time.Second, time.Millisecond)
}

func TestMount_InitialLoadThenReady(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(3)}
	c := NewController[fakeUser, fakeDraft](backend, 10)

	assert.Equal(t, PhaseInitialLoading, c.State().Phase)
	c.Mount(context.Background())
	waitReady(t, c)

	st := c.State()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, 3, st.TotalCount)
	assert.Equal(t, 1, st.CurrentPage)
	call := backend.lastCall()
	assert.Equal(t, 1, call.page)
	assert.Equal(t, 10, call.limit)
	assert.Equal(t, "", call.search)
}

func TestPagination_TwentyFiveRowsOverThreePages(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(25)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	st := c.State()
	assert.Equal(t, 3, st.TotalPages())
	assert.Len(t, st.Items, 10)

	c.SetPage(context.Background(), 3)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 3
	}, time.Second, time.Millisecond)
	assert.Len(t, c.State().Items, 5)
}

func TestSetPage_ClampsOutOfRange(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(25)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	c.SetPage(context.Background(), 99)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 3
	}, time.Second, time.Millisecond)

	c.SetPage(context.Background(), -4)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 1
	}, time.Second, time.Millisecond)
}

func TestCommitQuery_ResetsToPageOne(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(25)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)
	c.SetPage(context.Background(), 2)
	require.Eventually(t, func() bool { return c.State().CurrentPage == 2 && c.State().Phase == PhaseReady }, time.Second, time.Millisecond)

	c.CommitQuery(context.Background(), "User 1")
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 1
	}, time.Second, time.Millisecond)

	call := backend.lastCall()
	assert.Equal(t, 1, call.page)
	assert.Equal(t, "User 1", call.search)
	// Refetches after a query change use the light indicator, never the
	// full-screen initial one.
	assert.NotEqual(t, PhaseInitialLoading, c.State().Phase)
}

func TestStaleResponse_DiscardedByIssueOrder(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(25)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	// Gate the next two fetches and resolve them out of order: the fetch for
	// page 2 (issued first) resolves after the fetch for page 3.
	slow := make(chan struct{})
	fast := make(chan struct{})
	backend.mu.Lock()
	backend.gates = []chan struct{}{nil, slow, fast}
	backend.mu.Unlock()

	c.SetPage(context.Background(), 2)
	c.SetPage(context.Background(), 3)

	close(fast)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 3 && len(s.Items) == 5
	}, time.Second, time.Millisecond)

	close(slow)
	// The slower, earlier response must not overwrite the newer state.
	time.Sleep(20 * time.Millisecond)
	s := c.State()
	assert.Equal(t, 3, s.CurrentPage)
	assert.Len(t, s.Items, 5)
	assert.Equal(t, "u21", s.Items[0].ID)
}

func TestFetchFailure_PreservesItemsAndRetryReplaysParams(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(25)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)
	firstPage := c.State().Items

	backend.mu.Lock()
	backend.listErr = errors.New("connection refused")
	backend.mu.Unlock()

	c.SetPage(context.Background(), 2)
	require.Eventually(t, func() bool {
		return c.State().Phase == PhaseError
	}, time.Second, time.Millisecond)

	st := c.State()
	assert.Equal(t, "connection refused", st.ErrorMessage)
	assert.Equal(t, firstPage, st.Items, "prior rows stay on screen after a failed fetch")

	backend.mu.Lock()
	backend.listErr = nil
	backend.mu.Unlock()

	c.Retry(context.Background())
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 2
	}, time.Second, time.Millisecond)

	call := backend.lastCall()
	assert.Equal(t, 2, call.page)
	assert.Equal(t, "", call.search)
}

func TestDelete_LastRowOfLastPageClampsToPreviousPage(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(11)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	c.SetPage(context.Background(), 2)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 2 && len(s.Items) == 1
	}, time.Second, time.Millisecond)

	victim := c.State().Items[0].ID
	c.BeginDelete(victim)
	assert.Equal(t, MutationConfirmingDelete, c.Mutation().Kind)
	c.ConfirmDelete(context.Background())

	// The refetch of page 2 comes back empty, so the controller clamps to
	// page 1 and fetches again instead of showing an empty page.
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.CurrentPage == 1 && len(s.Items) == 10
	}, time.Second, time.Millisecond)
	assert.Equal(t, MutationNone, c.Mutation().Kind)
	assert.Equal(t, 10, c.State().TotalCount)
}

func TestConfirmDelete_FailureSurfacesListScopeError(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(5), deleteErr: errors.New("constraint violation")}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)
	before := c.State().Items

	c.BeginDelete("u03")
	c.ConfirmDelete(context.Background())

	require.Eventually(t, func() bool {
		return c.State().ActionError != ""
	}, time.Second, time.Millisecond)
	assert.Equal(t, "constraint violation", c.State().ActionError)
	assert.Equal(t, MutationNone, c.Mutation().Kind, "confirmation closes on failure")
	assert.Equal(t, before, c.State().Items, "list contents remain as displayed")
}

func TestEdit_SaveFailureKeepsDraftOpenWithError(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(5), updateErr: errors.New("email is invalid")}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)
	before := c.State().Items

	c.BeginEdit("u02", fakeDraft{Name: "Renamed"})
	c.SaveEdit(context.Background())

	require.Eventually(t, func() bool {
		return c.Mutation().EditError != ""
	}, time.Second, time.Millisecond)

	m := c.Mutation()
	assert.Equal(t, MutationEditing, m.Kind, "edit surface stays open")
	assert.Equal(t, "u02", m.TargetID)
	assert.Equal(t, "Renamed", m.Draft.Name, "draft survives the failure")
	assert.Equal(t, "email is invalid", m.EditError)
	assert.Equal(t, before, c.State().Items)

	// Clearing the backend error lets the retry succeed and refetch.
	backend.mu.Lock()
	backend.updateErr = nil
	backend.mu.Unlock()
	c.SaveEdit(context.Background())
	require.Eventually(t, func() bool {
		return c.Mutation().Kind == MutationNone
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		s := c.State()
		return s.Phase == PhaseReady && s.Items[1].Name == "Renamed"
	}, time.Second, time.Millisecond)
}

func TestCancel_LeavesStateUntouched(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(5)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	stateBefore := c.State()
	fetchesBefore := backend.callCount()

	c.BeginDelete("u01")
	c.CancelMutation()
	assert.Equal(t, MutationNone, c.Mutation().Kind)
	assert.Equal(t, stateBefore, c.State())

	c.BeginEdit("u01", fakeDraft{Name: "x"})
	c.SetDraft(fakeDraft{Name: "y"})
	c.CancelMutation()
	assert.Equal(t, MutationNone, c.Mutation().Kind)
	assert.Equal(t, stateBefore, c.State())
	assert.Equal(t, fetchesBefore, backend.callCount(), "cancel never talks to the network")
}

func TestOnlyOneOverlayOpen(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(5)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.Mount(context.Background())
	waitReady(t, c)

	c.BeginEdit("u01", fakeDraft{Name: "x"})
	c.BeginDelete("u02")
	m := c.Mutation()
	assert.Equal(t, MutationConfirmingDelete, m.Kind, "opening an overlay replaces the other")
	assert.Equal(t, "u02", m.TargetID)

	c.BeginEdit("u03", fakeDraft{Name: "z"})
	assert.Equal(t, MutationEditing, c.Mutation().Kind)
}

func TestMutationInFlight_BlocksSecondSubmit(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(5)}

	// Make Delete hang until released.
	hold := make(chan struct{})
	release := make(chan struct{})
	slowBackend := &slowDeleteBackend{fakeBackend: backend, hold: hold, release: release}
	cSlow := NewController[fakeUser, fakeDraft](slowBackend, 10)
	cSlow.Mount(context.Background())
	waitReady(t, cSlow)

	cSlow.BeginDelete("u01")
	cSlow.ConfirmDelete(context.Background())
	<-hold
	assert.True(t, cSlow.Busy())

	// A second confirm and any new overlay are ignored while pending.
	cSlow.ConfirmDelete(context.Background())
	cSlow.BeginEdit("u02", fakeDraft{})
	assert.NotEqual(t, MutationEditing, cSlow.Mutation().Kind)

	close(release)
	require.Eventually(t, func() bool { return !cSlow.Busy() }, time.Second, time.Millisecond)
	backend.mu.Lock()
	calls := backend.deleteCalls
	backend.mu.Unlock()
	assert.Equal(t, 1, calls, "double submit must not reach the backend twice")
}

type slowDeleteBackend struct {
	*fakeBackend
	hold    chan struct{}
	release chan struct{}
}

func (s *slowDeleteBackend) Delete(ctx context.Context, id string) error {
	s.hold <- struct{}{}
	<-s.release
	return s.fakeBackend.Delete(ctx, id)
}

func TestFiltersPassedOpaquely(t *testing.T) {
	backend := &fakeBackend{users: makeUsers(3)}
	c := NewController[fakeUser, fakeDraft](backend, 10)
	c.SetFilters(map[string]string{"role": "organizer", "approved": "false"})
	c.Mount(context.Background())
	waitReady(t, c)

	call := backend.lastCall()
	assert.Equal(t, map[string]string{"role": "organizer", "approved": "false"}, call.filters)
}
