package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, page, limit int, search string, filters model.UserFilters) ([]model.User, int, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, organization, phone, email, password_hash, role, approved, avatar_url, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.Organization, &user.Phone, &user.Email,
		&user.PasswordHash, &user.Role, &user.Approved, &user.AvatarURL, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, full_name, organization, phone, email, password_hash, role, approved, avatar_url, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, sql, user.ID, user.FullName, user.Organization, user.Phone, user.Email,
		user.PasswordHash, user.Role, user.Approved, user.AvatarURL, user.CreatedAt)
	if err != nil {
		// TODO: Check for unique constraint violation specifically pgerrcode.UniqueViolation
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List retrieves one page of users with an optional search term and filters,
// returning the page rows and the total number of matching users.
// Search matches full name, email and organization case-insensitively.
func (r *userRepository) List(ctx context.Context, page, limit int, search string, filters model.UserFilters) ([]model.User, int, error) {
	args := []interface{}{}
	argCount := 1
	var conditions []string

	if search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR COALESCE(organization, '') ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+search+"%")
		argCount++
	}
	if filters.Role != nil && *filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *filters.Role)
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
	countQuery := "SELECT COUNT(*) FROM users" + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	pageQuery := fmt.Sprintf("SELECT "+userColumns+" FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, argCount, argCount+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Organization, &u.Phone, &u.Email,
			&u.PasswordHash, &u.Role, &u.Approved, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

// Update applies the non-nil fields of req to the user and returns the updated row
func (r *userRepository) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	args := []interface{}{}
	argCount := 1
	var sets []string

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.FullName != nil {
		addSet("full_name", *req.FullName)
	}
	if req.Organization != nil {
		addSet("organization", *req.Organization)
	}
	if req.Phone != nil {
		addSet("phone", *req.Phone)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.Role != nil {
		addSet("role", *req.Role)
	}
	if req.Approved != nil {
		addSet("approved", *req.Approved)
	}
	if req.AvatarURL != nil {
		addSet("avatar_url", *req.AvatarURL)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING "+userColumns,
		strings.Join(sets, ", "), argCount)
	args = append(args, id)

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM users WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for deletion")
	}
	return nil
}
