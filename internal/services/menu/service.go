// Package menu implements the menu catalog.
package menu

import (
	"context"
	"time"

	"github.com/google/uuid"

	"warung-pos/internal/database"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
)

// Service implements menu catalog management.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new menu service.
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log,
	}
}

// List returns menu items, optionally filtered by category and availability.
func (s *Service) List(ctx context.Context, f database.MenuFilter) ([]models.MenuItem, error) {
	return s.db.ListMenuItems(ctx, f)
}

// Get returns one menu item.
func (s *Service) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.db.GetMenuItem(ctx, id)
}

// Create adds a menu item. New items default to available.
func (s *Service) Create(ctx context.Context, req *models.CreateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := &models.MenuItem{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       *req.Price,
		Category:    models.MenuCategory(req.Category),
		IsAvailable: available,
		PhotoURL:    req.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.InsertMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"id":       item.ID,
		"name":     item.Name,
		"category": item.Category,
	})
	return item, nil
}

// Update applies a partial update and returns the fresh row. Orders placed
// earlier keep their snapshotted name and price.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateMenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.UpdateMenuItem(ctx, id, req); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_updated", "Menu item updated", requestID, map[string]interface{}{
		"id": id,
	})
	return s.db.GetMenuItem(ctx, id)
}

// Delete removes a menu item from the catalog.
func (s *Service) Delete(ctx context.Context, id string, requestID string) error {
	if err := s.db.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.logger.Info("menu_item_deleted", "Menu item deleted", requestID, map[string]interface{}{
		"id": id,
	})
	return nil
}

// SetAvailability toggles whether an item can be ordered.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool, requestID string) (*models.MenuItem, error) {
	if err := s.db.SetMenuAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	s.logger.Info("menu_availability_changed", "Menu availability changed", requestID, map[string]interface{}{
		"id":        id,
		"available": available,
	})
	return s.db.GetMenuItem(ctx, id)
}
