package models

import (
	"testing"

	"warung-pos/internal/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCreateMenuItemRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateMenuItemRequest
		wantErr bool
	}{
		{"valid", CreateMenuItemRequest{Name: "Nasi Goreng", Price: int64Ptr(15000), Category: "makanan_utama"}, false},
		{"free item", CreateMenuItemRequest{Name: "Air Putih", Price: int64Ptr(0), Category: "minuman"}, false},
		{"missing name", CreateMenuItemRequest{Price: int64Ptr(1000), Category: "extra"}, true},
		{"missing price", CreateMenuItemRequest{Name: "Sate", Category: "lauk"}, true},
		{"negative price", CreateMenuItemRequest{Name: "Sate", Price: int64Ptr(-1), Category: "lauk"}, true},
		{"bad category", CreateMenuItemRequest{Name: "Sate", Price: int64Ptr(1000), Category: "dessert"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && !apperrors.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateMenuItemRequestValidate(t *testing.T) {
	name := "Ayam Bakar"
	empty := ""
	badCat := "snack"
	goodCat := "lauk"

	if err := (&UpdateMenuItemRequest{}).Validate(); err != nil {
		t.Errorf("empty partial update must pass, got %v", err)
	}
	if err := (&UpdateMenuItemRequest{Name: &name, Category: &goodCat}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&UpdateMenuItemRequest{Name: &empty}).Validate(); !apperrors.IsValidation(err) {
		t.Errorf("empty name: err = %v, want validation error", err)
	}
	if err := (&UpdateMenuItemRequest{Price: int64Ptr(-5)}).Validate(); !apperrors.IsValidation(err) {
		t.Errorf("negative price: err = %v, want validation error", err)
	}
	if err := (&UpdateMenuItemRequest{Category: &badCat}).Validate(); !apperrors.IsValidation(err) {
		t.Errorf("bad category: err = %v, want validation error", err)
	}
}
