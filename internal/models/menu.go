package models

import (
	"time"

	"warung-pos/internal/apperrors"
)

// MenuCategory is the fixed set of menu categories.
type MenuCategory string

const (
	CategoryMakananUtama MenuCategory = "makanan_utama"
	CategoryLauk         MenuCategory = "lauk"
	CategoryMinuman      MenuCategory = "minuman"
	CategoryExtra        MenuCategory = "extra"
)

// ValidMenuCategory reports whether c is one of the enumerated categories.
func ValidMenuCategory(c string) bool {
	switch MenuCategory(c) {
	case CategoryMakananUtama, CategoryLauk, CategoryMinuman, CategoryExtra:
		return true
	}
	return false
}

// MenuItem is a sellable item. Price is in whole rupiah.
type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Price       int64        `json:"price"`
	Category    MenuCategory `json:"category"`
	IsAvailable bool         `json:"is_available"`
	PhotoURL    *string      `json:"photo_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateMenuItemRequest is the payload for creating a menu item.
type CreateMenuItemRequest struct {
	Name        string  `json:"name"`
	Price       *int64  `json:"price"`
	Category    string  `json:"category"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// Validate checks the create menu item payload.
func (r *CreateMenuItemRequest) Validate() error {
	if r.Name == "" {
		return apperrors.Validation("name", "name is required")
	}
	if len(r.Name) > 255 {
		return apperrors.Validation("name", "name must be at most 255 characters")
	}
	if r.Price == nil {
		return apperrors.Validation("price", "price is required")
	}
	if *r.Price < 0 {
		return apperrors.Validation("price", "price must not be negative")
	}
	if !ValidMenuCategory(r.Category) {
		return apperrors.Validation("category", "category must be one of: makanan_utama, lauk, minuman, extra")
	}
	return nil
}

// UpdateMenuItemRequest is the payload for a partial menu item update.
// Nil fields are left unchanged.
type UpdateMenuItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// Validate checks the update menu item payload.
func (r *UpdateMenuItemRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return apperrors.Validation("name", "name must not be empty")
	}
	if r.Price != nil && *r.Price < 0 {
		return apperrors.Validation("price", "price must not be negative")
	}
	if r.Category != nil && !ValidMenuCategory(*r.Category) {
		return apperrors.Validation("category", "category must be one of: makanan_utama, lauk, minuman, extra")
	}
	return nil
}
