package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/models"
)

// MenuFilter narrows ListMenuItems. Zero values mean "no filter".
type MenuFilter struct {
	Category  string
	Available *bool
}

// ListMenuItems returns menu items ordered by category then name.
func (db *DB) ListMenuItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	sql := `SELECT ` + menuItemColumns + ` FROM menu_items`
	var conditions []string
	var params []any

	if f.Category != "" {
		params = append(params, f.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(params)))
	}
	if f.Available != nil {
		params = append(params, *f.Available)
		conditions = append(conditions, "is_available = $"+strconv.Itoa(len(params)))
	}

	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	sql += " ORDER BY category, name"

	rows, err := db.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.IsAvailable,
			&m.PhotoURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMenuItem looks up one menu item.
func (db *DB) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var m models.MenuItem
	err := db.QueryRow(ctx, getMenuItemSQL, id).Scan(
		&m.ID, &m.Name, &m.Price, &m.Category, &m.IsAvailable, &m.PhotoURL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &m, nil
}

// InsertMenuItem inserts a menu item row.
func (db *DB) InsertMenuItem(ctx context.Context, m *models.MenuItem) error {
	err := db.Exec(ctx, insertMenuItemSQL,
		m.ID, m.Name, m.Price, m.Category, m.IsAvailable, m.PhotoURL, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem applies a partial update; nil fields are left unchanged.
func (db *DB) UpdateMenuItem(ctx context.Context, id string, r *models.UpdateMenuItemRequest) error {
	tag, err := db.Pool.Exec(ctx, updateMenuItemSQL,
		r.Name, r.Price, r.Category, r.IsAvailable, r.PhotoURL, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMenuItem removes a menu item.
func (db *DB) DeleteMenuItem(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, deleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetMenuAvailability toggles the availability flag.
func (db *DB) SetMenuAvailability(ctx context.Context, id string, available bool) error {
	tag, err := db.Pool.Exec(ctx, setMenuAvailabilitySQL, available, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set menu availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
