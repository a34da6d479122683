// Package auth implements staff accounts, login and JWT verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"warung-pos/internal/apperrors"
	"warung-pos/internal/config"
	"warung-pos/internal/database"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.StandardClaims
}

// Service implements authentication and user management.
type Service struct {
	db     *database.DB
	cfg    config.AuthConfig
	logger *logger.Logger
}

// NewService creates a new auth service.
func NewService(db *database.DB, cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		logger: log,
	}
}

// Login verifies the credentials and returns a signed token with the user.
// Wrong username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, requestID string) (string, *models.User, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.db.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Info("login_rejected", "Password mismatch", requestID, map[string]interface{}{
			"username": req.Username,
		})
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("login_succeeded", "User logged in", requestID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})

	return token, user, nil
}

func (s *Service) issueToken(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken verifies a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidCredentials
	}
	return claims, nil
}

// CreateUser registers a new staff account.
func (s *Service) CreateUser(ctx context.Context, req *models.CreateUserRequest, requestID string) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         models.Role(req.Role),
		TelegramID:   req.TelegramID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.db.InsertUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("username %q: %w", req.Username, apperrors.ErrDuplicate)
		}
		return nil, err
	}

	s.logger.Info("user_created", "Staff account created", requestID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})

	return user, nil
}

// GetUser looks up one user.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.db.GetUserByID(ctx, id)
}

// ListUsers returns all staff accounts.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.db.ListUsers(ctx)
}

// DeleteUser removes a staff account. Deleting your own account is refused.
func (s *Service) DeleteUser(ctx context.Context, id, requesterID string) error {
	if id == requesterID {
		return apperrors.Validation("id", "cannot delete your own account")
	}
	return s.db.DeleteUser(ctx, id)
}
