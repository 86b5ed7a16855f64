package model

import "time"

const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents an account on the platform. Organizers register with an
// organization name and stay unapproved until an admin approves them.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Organization *string   `json:"organization,omitempty"` // Pointer for optional field
	Phone        *string   `json:"phone,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateUserRequest is used for partial updates of a user's mutable fields.
// ID and CreatedAt are never updatable.
type UpdateUserRequest struct {
	FullName     *string `json:"full_name,omitempty"` // Pointers to allow partial updates
	Organization *string `json:"organization,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Role         *string `json:"role,omitempty" binding:"omitempty,oneof=user organizer admin"`
	Approved     *bool   `json:"approved,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
}

// UserFilters contains filter parameters for admin user list queries
type UserFilters struct {
	Role     *string
	Approved *bool
}

// EntityID lets users drive the generic admin list view.
func (u User) EntityID() string { return u.ID }
