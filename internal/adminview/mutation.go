package adminview

import "context"

// Mutation flow per row: Viewing -> ConfirmingDelete -> (deleted | Viewing)
// and Viewing -> Editing -> (saved | Viewing). Every successful mutation is
// reconciled with the displayed list by an authoritative refetch; the client
// never patches rows locally.

// BeginDelete opens the delete confirmation for the given entity. Any other
// open overlay is replaced; no remote call happens yet.
func (c *Controller[T, D]) BeginDelete(id string) {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return
	}
	c.mutation = MutationState[D]{Kind: MutationConfirmingDelete, TargetID: id}
	c.state.ActionError = ""
	c.mu.Unlock()
	c.notify()
}

// ConfirmDelete performs the pending delete. On success the confirmation
// closes and the list refetches with unchanged page and query (the page is
// clamped afterwards if it ran past the end). On failure the confirmation
// closes and a list-scope error is shown; displayed rows are untouched.
func (c *Controller[T, D]) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	if c.mutating || c.mutation.Kind != MutationConfirmingDelete {
		c.mu.Unlock()
		return
	}
	id := c.mutation.TargetID
	c.mutating = true
	c.mu.Unlock()
	c.notify()

	go func() {
		err := c.svc.Delete(ctx, id)

		c.mu.Lock()
		c.mutating = false
		c.mutation = MutationState[D]{}
		if err != nil {
			c.state.ActionError = err.Error()
			c.mu.Unlock()
			c.notify()
			return
		}
		c.state.ActionError = ""
		c.fetchLocked(ctx, c.state.CurrentPage, c.lastSearch)
		c.mu.Unlock()
		c.notify()
	}()
}

// BeginEdit opens the edit overlay seeded with a draft of the entity's
// mutable fields. The caller builds the draft copy; the displayed entity is
// never mutated in place.
func (c *Controller[T, D]) BeginEdit(id string, draft D) {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return
	}
	c.mutation = MutationState[D]{Kind: MutationEditing, TargetID: id, Draft: draft}
	c.mu.Unlock()
	c.notify()
}

// SetDraft replaces the open edit draft as the user changes fields.
func (c *Controller[T, D]) SetDraft(draft D) {
	c.mu.Lock()
	if c.mutation.Kind != MutationEditing {
		c.mu.Unlock()
		return
	}
	c.mutation.Draft = draft
	c.mu.Unlock()
	c.notify()
}

// SaveEdit submits the open draft. On success the draft is discarded and the
// list refetches; on failure the draft stays open with an inline error so
// the user can retry or cancel.
func (c *Controller[T, D]) SaveEdit(ctx context.Context) {
	c.mu.Lock()
	if c.mutating || c.mutation.Kind != MutationEditing {
		c.mu.Unlock()
		return
	}
	id := c.mutation.TargetID
	draft := c.mutation.Draft
	c.mutating = true
	c.mu.Unlock()
	c.notify()

	go func() {
		_, err := c.svc.Update(ctx, id, draft)

		c.mu.Lock()
		c.mutating = false
		if err != nil {
			c.mutation.EditError = err.Error()
			c.mu.Unlock()
			c.notify()
			return
		}
		c.mutation = MutationState[D]{}
		c.fetchLocked(ctx, c.state.CurrentPage, c.lastSearch)
		c.mu.Unlock()
		c.notify()
	}()
}

// CancelMutation closes whichever overlay is open. No remote call is made
// and the list state is left exactly as it was.
func (c *Controller[T, D]) CancelMutation() {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return
	}
	c.mutation = MutationState[D]{}
	c.mu.Unlock()
	c.notify()
}
