package adminview

import "context"

// Gate guards a view behind a role allow-list. The decision is pure and
// synchronous; a missing identity and a disallowed role are treated the same
// way, as a denial redirecting to Fallback.
type Gate struct {
	AllowedRoles []string
	Fallback     string
}

// Decision is the gate's outcome: render the guarded view, or navigate to
// RedirectTo.
type Decision struct {
	Render     bool
	RedirectTo string
}

// Decide evaluates the allow-list against the given identity.
func (g Gate) Decide(id *Identity) Decision {
	if id != nil {
		for _, role := range g.AllowedRoles {
			if id.Role == role {
				return Decision{Render: true}
			}
		}
	}
	return Decision{Render: false, RedirectTo: g.Fallback}
}

// Watch evaluates the gate immediately and again on every identity change,
// reporting each decision to onDecision. The returned cancel stops watching.
func (g Gate) Watch(store Store, onDecision func(Decision)) (cancel func()) {
	onDecision(g.Decide(store.Current()))
	return store.Subscribe(func(id *Identity) {
		onDecision(g.Decide(id))
	})
}

// MountGuarded mounts the list controller only when the gate admits the
// store's current identity. On denial the controller never fetches and the
// caller is expected to navigate to the decision's RedirectTo.
func MountGuarded[T Entity, D any](ctx context.Context, g Gate, store Store, c *Controller[T, D]) Decision {
	d := g.Decide(store.Current())
	if d.Render {
		c.Mount(ctx)
	}
	return d
}
