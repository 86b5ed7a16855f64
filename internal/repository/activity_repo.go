package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// ActivityRepository defines operations for activity data
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id string) (*model.Activity, error)
	List(ctx context.Context, page, limit int, search string, filters model.ActivityFilters) ([]model.Activity, int, error)
	Update(ctx context.Context, id string, req model.UpdateActivityRequest) (*model.Activity, error)
	Delete(ctx context.Context, id string) error
}

type activityRepository struct {
	db DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db DB) ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `id, name, description, category, location, address, price, image_url, organizer_id, approved, created_at`

func scanActivity(row pgx.Row) (*model.Activity, error) {
	a := &model.Activity{}
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Location, &a.Address,
		&a.Price, &a.ImageURL, &a.OrganizerID, &a.Approved, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new activity into the database
func (r *activityRepository) Create(ctx context.Context, a *model.Activity) error {
	sql := `INSERT INTO activities (id, name, description, category, location, address, price, image_url, organizer_id, approved, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, sql, a.ID, a.Name, a.Description, a.Category, a.Location, a.Address,
		a.Price, a.ImageURL, a.OrganizerID, a.Approved, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// FindByID retrieves an activity by its ID
func (r *activityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	sql := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	a, err := scanActivity(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find activity by ID: %w", err)
	}
	return a, nil
}

// List retrieves one page of activities with an optional search term and
// filters, returning the page rows and the total number of matching rows.
// Search matches name, description, category and location case-insensitively.
func (r *activityRepository) List(ctx context.Context, page, limit int, search string, filters model.ActivityFilters) ([]model.Activity, int, error) {
	args := []interface{}{}
	argCount := 1
	var conditions []string

	if search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d OR location ILIKE $%d)", argCount, argCount, argCount, argCount))
		args = append(args, "%"+search+"%")
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.OrganizerID != nil && *filters.OrganizerID != "" {
		conditions = append(conditions, fmt.Sprintf("organizer_id = $%d", argCount))
		args = append(args, *filters.OrganizerID)
		argCount++
	}
	if filters.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("approved = $%d", argCount))
		args = append(args, *filters.Approved)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM activities" + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	pageQuery := fmt.Sprintf("SELECT "+activityColumns+" FROM activities%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argCount, argCount+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Location, &a.Address,
			&a.Price, &a.ImageURL, &a.OrganizerID, &a.Approved, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activities, total, nil
}

// Update applies the non-nil fields of req to the activity and returns the updated row
func (r *activityRepository) Update(ctx context.Context, id string, req model.UpdateActivityRequest) (*model.Activity, error) {
	args := []interface{}{}
	argCount := 1
	var sets []string

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Category != nil {
		addSet("category", *req.Category)
	}
	if req.Location != nil {
		addSet("location", *req.Location)
	}
	if req.Address != nil {
		addSet("address", *req.Address)
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.ImageURL != nil {
		addSet("image_url", *req.ImageURL)
	}
	if req.Approved != nil {
		addSet("approved", *req.Approved)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sql := fmt.Sprintf("UPDATE activities SET %s WHERE id = $%d RETURNING "+activityColumns,
		strings.Join(sets, ", "), argCount)
	args = append(args, id)

	a, err := scanActivity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return a, nil
}

// Delete removes an activity from the database
func (r *activityRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM activities WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("activity not found for deletion")
	}
	return nil
}
