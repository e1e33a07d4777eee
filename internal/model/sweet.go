package model

import (
	"time"

	"github.com/google/uuid"
)

// Sweet represents a priced, stocked item in the catalogue.
type Sweet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateSweetRequest represents the request payload for creating a sweet.
// Numeric fields are pointers so a missing value can be told apart from zero.
type CreateSweetRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

// UpdateSweetRequest represents a partial update. Nil fields keep their stored value.
type UpdateSweetRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

// Empty reports whether no field was supplied.
func (r *UpdateSweetRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil && r.Quantity == nil && r.ImageURL == nil
}

// SweetFilter holds the optional search criteria. All set criteria must match.
type SweetFilter struct {
	Name     *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
}

// Empty reports whether no criterion was supplied.
func (f *SweetFilter) Empty() bool {
	return f.Name == nil && f.Category == nil && f.MinPrice == nil && f.MaxPrice == nil
}
