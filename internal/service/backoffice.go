package service

import (
	"context"
	"strconv"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/adminview"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
)

// Adapters binding the typed services to the adminview controller's generic
// backing contract. The controller passes filters opaquely as strings; these
// translate them to the typed filter structs the repositories expect.

type userBackend struct {
	svc UserService
}

// NewUserBackend exposes user management as a back-office list backend. It
// drives the admin Users screen.
func NewUserBackend(svc UserService) adminview.Service[model.User, model.UpdateUserRequest] {
	return &userBackend{svc: svc}
}

func (b *userBackend) List(ctx context.Context, page, limit int, search string, filters map[string]string) ([]model.User, int, error) {
	var f model.UserFilters
	if role, ok := filters["role"]; ok && role != "" {
		f.Role = &role
	}
	if raw, ok := filters["approved"]; ok && raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			f.Approved = &approved
		}
	}
	return b.svc.List(ctx, page, limit, search, f)
}

func (b *userBackend) Update(ctx context.Context, id string, draft model.UpdateUserRequest) (*model.User, error) {
	return b.svc.Update(ctx, id, draft)
}

func (b *userBackend) Delete(ctx context.Context, id string) error {
	return b.svc.Delete(ctx, id)
}

type activityBackend struct {
	svc    ActivityService
	caller adminview.Identity
}

// NewActivityBackend exposes activity management as a back-office list
// backend acting on behalf of caller. With an "approved=false" filter it is
// the Requests screen; unfiltered it is the Activities screen.
func NewActivityBackend(svc ActivityService, caller adminview.Identity) adminview.Service[model.Activity, model.UpdateActivityRequest] {
	return &activityBackend{svc: svc, caller: caller}
}

func (b *activityBackend) List(ctx context.Context, page, limit int, search string, filters map[string]string) ([]model.Activity, int, error) {
	var f model.ActivityFilters
	if category, ok := filters["category"]; ok && category != "" {
		f.Category = &category
	}
	if organizer, ok := filters["organizer_id"]; ok && organizer != "" {
		f.OrganizerID = &organizer
	}
	if raw, ok := filters["approved"]; ok && raw != "" {
		if approved, err := strconv.ParseBool(raw); err == nil {
			f.Approved = &approved
		}
	}
	return b.svc.ListAdmin(ctx, page, limit, search, f)
}

func (b *activityBackend) Update(ctx context.Context, id string, draft model.UpdateActivityRequest) (*model.Activity, error) {
	return b.svc.Update(ctx, id, b.caller.ID, b.caller.Role, draft)
}

func (b *activityBackend) Delete(ctx context.Context, id string) error {
	return b.svc.Delete(ctx, id, b.caller.ID, b.caller.Role)
}
