package model

import "time"

// Activity represents a hobby or leisure activity listed on the platform.
// Activities created by organizers start unapproved and show up in the admin
// back-office's requests queue until approved.
type Activity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Address     *string   `json:"address,omitempty"` // Pointer for optional field
	Price       *float64  `json:"price,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	OrganizerID string    `json:"organizer_id"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateActivityRequest is used for creating a new activity
type CreateActivityRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Address     *string  `json:"address"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url"`
}

type UpdateActivityRequest struct {
	Name        *string  `json:"name,omitempty"` // Pointers to allow partial updates
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Approved    *bool    `json:"approved,omitempty"`
}

// ActivityFilters contains filter parameters for activity list queries
type ActivityFilters struct {
	Category    *string
	OrganizerID *string
	Approved    *bool
}

// EntityID lets activities drive the generic admin list view.
func (a Activity) EntityID() string { return a.ID }
