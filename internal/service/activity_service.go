package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrForbidden        = errors.New("forbidden: user does not have permission for this action")
)

// ActivityService defines operations for activities. Organizer-created
// activities start unapproved and sit in the admin requests queue until
// approved; only approved ones are visible to the public listing.
type ActivityService interface {
	Create(ctx context.Context, callerID, callerRole string, req model.CreateActivityRequest) (*model.Activity, error)
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	ListPublic(ctx context.Context, page, limit int, search string, category *string) ([]model.Activity, int, error)
	ListAdmin(ctx context.Context, page, limit int, search string, filters model.ActivityFilters) ([]model.Activity, int, error)
	Update(ctx context.Context, id, callerID, callerRole string, req model.UpdateActivityRequest) (*model.Activity, error)
	Approve(ctx context.Context, id string) (*model.Activity, error)
	Delete(ctx context.Context, id, callerID, callerRole string) error
}

type activityService struct {
	repo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) Create(ctx context.Context, callerID, callerRole string, req model.CreateActivityRequest) (*model.Activity, error) {
	activity := &model.Activity{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Address:     req.Address,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		OrganizerID: callerID,
		Approved:    callerRole == model.RoleAdmin, // admin-created listings skip the queue
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity in repo: %w", err)
	}
	return activity, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListPublic returns approved activities only; it backs the consumer app's
// browse and search screens.
func (s *activityService) ListPublic(ctx context.Context, page, limit int, search string, category *string) ([]model.Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	approved := true
	filters := model.ActivityFilters{Category: category, Approved: &approved}
	activities, total, err := s.repo.List(ctx, page, limit, search, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

func (s *activityService) ListAdmin(ctx context.Context, page, limit int, search string, filters model.ActivityFilters) ([]model.Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	activities, total, err := s.repo.List(ctx, page, limit, search, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities for admin: %w", err)
	}
	return activities, total, nil
}

func (s *activityService) Update(ctx context.Context, id, callerID, callerRole string, req model.UpdateActivityRequest) (*model.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find activity for update: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	if callerRole != model.RoleAdmin {
		if activity.OrganizerID != callerID {
			return nil, ErrForbidden
		}
		// Only admins flip the approval flag.
		req.Approved = nil
	}
	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	if updated == nil {
		return nil, ErrActivityNotFound
	}
	return updated, nil
}

// Approve accepts a pending activity request into the public catalogue
func (s *activityService) Approve(ctx context.Context, id string) (*model.Activity, error) {
	approved := true
	updated, err := s.repo.Update(ctx, id, model.UpdateActivityRequest{Approved: &approved})
	if err != nil {
		return nil, fmt.Errorf("failed to approve activity: %w", err)
	}
	if updated == nil {
		return nil, ErrActivityNotFound
	}
	return updated, nil
}

func (s *activityService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find activity for deletion: %w", err)
	}
	if activity == nil {
		return ErrActivityNotFound
	}
	if callerRole != model.RoleAdmin && activity.OrganizerID != callerID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
