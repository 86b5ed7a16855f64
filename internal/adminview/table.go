package adminview

// Column maps one entity to one cell of displayable text.
type Column[T Entity] struct {
	Header string
	Render func(T) string
}

// Action is one per-row operation (edit, delete, approve, ...). Enabled may
// be nil, meaning always enabled. AllowSelf opts an action out of the
// self-action guard; it defaults to false so destructive actions can never
// target the signed-in identity's own row.
type Action[T Entity] struct {
	Name      string
	Enabled   func(T, *Identity) bool
	Handle    func(T)
	AllowSelf bool
}

// Table renders ListState snapshots through a declarative column and action
// configuration, independent of the entity type. Rows keep the order the
// fetch returned; there is no client-side re-sorting.
type Table[T Entity] struct {
	Columns []Column[T]
	Actions []Action[T]
}

// ActionView is one action button's display state on one row.
type ActionView struct {
	Name    string
	Enabled bool
}

// RowView is one rendered row: cell text in column order plus per-action
// enablement.
type RowView struct {
	ID      string
	Cells   []string
	Actions []ActionView
}

// PaginationView describes the pager. It is only present when there is more
// than one page; Pages is always the full run 1..TotalPages.
type PaginationView struct {
	Pages       []int
	Current     int
	PrevEnabled bool
	NextEnabled bool
}

// TableView is a full render of the list screen's table area.
type TableView struct {
	Headers []string
	Rows    []RowView
	// Empty marks the dedicated empty-state: a Ready list with no rows.
	Empty      bool
	Pagination *PaginationView
}

// Snapshot renders the given list state for the given identity. busy is the
// controller's Busy flag; while a mutation is in flight every action is
// disabled to prevent double submits.
func (t Table[T]) Snapshot(state ListState[T], identity *Identity, busy bool) TableView {
	view := TableView{
		Headers: make([]string, len(t.Columns)),
		Rows:    make([]RowView, 0, len(state.Items)),
		Empty:   state.Phase == PhaseReady && len(state.Items) == 0,
	}
	for i, col := range t.Columns {
		view.Headers[i] = col.Header
	}

	for _, item := range state.Items {
		row := RowView{
			ID:      item.EntityID(),
			Cells:   make([]string, len(t.Columns)),
			Actions: make([]ActionView, len(t.Actions)),
		}
		for i, col := range t.Columns {
			row.Cells[i] = col.Render(item)
		}
		for i, action := range t.Actions {
			row.Actions[i] = ActionView{
				Name:    action.Name,
				Enabled: actionEnabled(action, item, identity, busy),
			}
		}
		view.Rows = append(view.Rows, row)
	}

	if totalPages := state.TotalPages(); totalPages > 1 {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		view.Pagination = &PaginationView{
			Pages:       pages,
			Current:     state.CurrentPage,
			PrevEnabled: state.CurrentPage > 1,
			NextEnabled: state.CurrentPage < totalPages,
		}
	}
	return view
}

// actionEnabled applies, in order: the busy lockout, the generic self-action
// guard (an identity can never act on its own row), and the action's own
// predicate.
func actionEnabled[T Entity](a Action[T], item T, identity *Identity, busy bool) bool {
	if busy {
		return false
	}
	if !a.AllowSelf && identity != nil && item.EntityID() == identity.ID {
		return false
	}
	if a.Enabled != nil && !a.Enabled(item, identity) {
		return false
	}
	return true
}
