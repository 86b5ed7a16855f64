package adminview

import (
	"context"
	"sync"
)

// DefaultPageSize is the fixed page size of the admin list screens.
const DefaultPageSize = 10

// Phase is the list view's coarse loading state.
type Phase int

const (
	// PhaseInitialLoading shows the full-view loading indicator; only the
	// very first fetch of a mounted view uses it.
	PhaseInitialLoading Phase = iota
	// PhaseReady means the last fetch succeeded and items reflect it.
	PhaseReady
	// PhaseSearching marks a refetch (query or page change) that keeps the
	// already-rendered rows on screen to avoid flicker.
	PhaseSearching
	// PhaseError means the last fetch failed; prior items are preserved.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialLoading:
		return "initial-loading"
	case PhaseReady:
		return "ready"
	case PhaseSearching:
		return "searching"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Entity is anything with a stable string identity.
type Entity interface {
	EntityID() string
}

// Service is the backing CRUD contract the list controller consumes. Filters
// are passed through opaquely; D is the draft type carrying the entity's
// mutable fields for partial updates.
type Service[T Entity, D any] interface {
	List(ctx context.Context, page, limit int, search string, filters map[string]string) ([]T, int, error)
	Update(ctx context.Context, id string, draft D) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ListState is a snapshot of the list view's data state.
type ListState[T Entity] struct {
	Items       []T
	TotalCount  int
	CurrentPage int
	PageSize    int
	Phase       Phase
	// ErrorMessage is set while Phase is PhaseError.
	ErrorMessage string
	// ActionError is a list-scope message from a failed delete.
	ActionError string
}

// TotalPages derives the page count from TotalCount and PageSize.
func (s ListState[T]) TotalPages() int {
	if s.PageSize <= 0 {
		return 0
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// MutationKind tags the single open overlay of a list screen.
type MutationKind int

const (
	MutationNone MutationKind = iota
	MutationConfirmingDelete
	MutationEditing
)

// MutationState models the at-most-one open overlay: nothing, a delete
// confirmation for TargetID, or an edit draft for TargetID. Opening either
// overlay replaces the other, so at most one modal is ever active.
type MutationState[D any] struct {
	Kind     MutationKind
	TargetID string
	Draft    D
	// EditError is the inline message shown in the edit surface after a
	// failed save; the draft stays open so the user can retry or cancel.
	EditError string
}

// Controller drives one paginated, searchable, mutable list screen. All
// fetches and mutations are dispatched asynchronously; responses are
// sequence-stamped so a slow earlier fetch can never overwrite the result of
// a later one.
type Controller[T Entity, D any] struct {
	mu       sync.Mutex
	svc      Service[T, D]
	filters  map[string]string
	onChange func()

	state    ListState[T]
	mutation MutationState[D]
	// mutating is true while an update or delete call is in flight; the
	// view disables mutation buttons off it to prevent double submits.
	mutating bool

	mounted bool
	// everLoaded distinguishes the initial full-view loading state from
	// later light refetches.
	everLoaded bool

	// seq stamps fetches in issue order; applied is the stamp of the last
	// response folded into state.
	seq     uint64
	applied uint64

	// Last attempted fetch parameters, replayed verbatim by Retry.
	lastPage   int
	lastSearch string
}

// NewController creates a controller over the given backing service. A
// pageSize of zero or less falls back to DefaultPageSize.
func NewController[T Entity, D any](svc Service[T, D], pageSize int) *Controller[T, D] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller[T, D]{
		svc: svc,
		state: ListState[T]{
			CurrentPage: 1,
			PageSize:    pageSize,
			Phase:       PhaseInitialLoading,
		},
	}
}

// SetFilters fixes extra filters passed opaquely to every list call. Call
// before Mount.
func (c *Controller[T, D]) SetFilters(filters map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = filters
}

// SetOnChange registers a hook invoked after every state transition, so a
// shell can re-render.
func (c *Controller[T, D]) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns a snapshot of the current list state. The items slice must
// be treated as read-only.
func (c *Controller[T, D]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mutation returns the currently open overlay, if any.
func (c *Controller[T, D]) Mutation() MutationState[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutation
}

// Busy reports whether a mutation call is in flight.
func (c *Controller[T, D]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutating
}

// Query returns the committed search query of the last fetch.
func (c *Controller[T, D]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSearch
}

// Mount issues the initial fetch. The first fetch of a fresh controller uses
// the full-view loading phase; everything after uses the lighter one.
func (c *Controller[T, D]) Mount(ctx context.Context) {
	c.mu.Lock()
	c.mounted = true
	c.fetchLocked(ctx, c.state.CurrentPage, c.lastSearch)
	c.mu.Unlock()
	c.notify()
}

// SetPage moves to the given page (clamped into the valid range) and
// refetches. The committed query is left untouched.
func (c *Controller[T, D]) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	c.fetchLocked(ctx, c.clampLocked(page), c.lastSearch)
	c.mu.Unlock()
	c.notify()
}

// CommitQuery applies a newly committed search query: the page resets to 1
// and a refetch is issued. Wire this as the QueryController's commit
// callback.
func (c *Controller[T, D]) CommitQuery(ctx context.Context, query string) {
	c.mu.Lock()
	c.fetchLocked(ctx, 1, query)
	c.mu.Unlock()
	c.notify()
}

// Retry replays the last attempted fetch with identical parameters. It is
// the manual recovery path after a fetch failure; nothing retries silently.
func (c *Controller[T, D]) Retry(ctx context.Context) {
	c.mu.Lock()
	c.fetchLocked(ctx, c.lastPage, c.lastSearch)
	c.mu.Unlock()
	c.notify()
}

// Refresh refetches the current page with the current query, e.g. after an
// out-of-band change to the backing data.
func (c *Controller[T, D]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.fetchLocked(ctx, c.clampLocked(c.state.CurrentPage), c.lastSearch)
	c.mu.Unlock()
	c.notify()
}

// clampLocked forces page into [1, max(1, totalPages)] based on the last
// known total. Violations are corrected silently, never surfaced as errors.
func (c *Controller[T, D]) clampLocked(page int) int {
	maxPage := c.state.TotalPages()
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

// fetchLocked stamps and dispatches one fetch. Callers hold c.mu.
func (c *Controller[T, D]) fetchLocked(ctx context.Context, page int, search string) {
	c.seq++
	seq := c.seq
	c.lastPage = page
	c.lastSearch = search
	c.state.CurrentPage = page
	if c.everLoaded {
		c.state.Phase = PhaseSearching
	} else {
		c.state.Phase = PhaseInitialLoading
	}
	c.state.ErrorMessage = ""

	limit := c.state.PageSize
	filters := c.filters

	go func() {
		items, total, err := c.svc.List(ctx, page, limit, search, filters)
		c.apply(ctx, seq, page, search, items, total, err)
	}()
}

// apply folds one fetch response into state, discarding it when a
// later-issued fetch has already been applied.
func (c *Controller[T, D]) apply(ctx context.Context, seq uint64, page int, search string, items []T, total int, err error) {
	c.mu.Lock()
	if seq < c.applied {
		// A later-issued fetch already resolved; this response is stale.
		c.mu.Unlock()
		return
	}
	c.applied = seq

	if err != nil {
		// Prior items stay on screen; the view offers a manual retry.
		c.state.Phase = PhaseError
		c.state.ErrorMessage = err.Error()
		c.mu.Unlock()
		c.notify()
		return
	}

	c.everLoaded = true
	c.state.Items = items
	c.state.TotalCount = total
	c.state.Phase = PhaseReady
	c.state.ErrorMessage = ""

	// The page may have become invalid server-side (e.g. the last row of the
	// final page was deleted). Clamp and refetch rather than showing an
	// empty page beyond the end.
	if len(items) == 0 && total > 0 && page > c.state.TotalPages() {
		c.fetchLocked(ctx, c.clampLocked(page), search)
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller[T, D]) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
