package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/models"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func (db *DB) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.TelegramID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetUserByUsername looks up a user by login name.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.scanUser(db.QueryRow(ctx, getUserByUsernameSQL, username))
}

// GetUserByID looks up a user by id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.scanUser(db.QueryRow(ctx, getUserByIDSQL, id))
}

// InsertUser inserts a user row.
func (db *DB) InsertUser(ctx context.Context, u *models.User) error {
	err := db.Exec(ctx, insertUserSQL, u.ID, u.Username, u.PasswordHash, u.Role, u.TelegramID, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// ListUsers returns all users, oldest first.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.TelegramID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
