package auth

import (
	"net/http"

	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/services/web"
)

// Handler handles HTTP requests for authentication and user management.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register wires the auth routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/auth/login", http.HandlerFunc(h.Login))
	mux.Handle("GET /api/auth/me", h.service.Authenticate(http.HandlerFunc(h.Me)))

	admin := func(fn http.HandlerFunc) http.Handler {
		return h.service.Authenticate(h.service.RequireAdmin(fn))
	}
	mux.Handle("POST /api/users", admin(h.CreateUser))
	mux.Handle("GET /api/users", admin(h.ListUsers))
	mux.Handle("DELETE /api/users/{id}", admin(h.DeleteUser))
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.LoginRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	token, user, err := h.service.Login(r.Context(), &req, requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())

	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.CreateUserRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req, requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	claims, _ := ClaimsFrom(r.Context())

	if err := h.service.DeleteUser(r.Context(), r.PathValue("id"), claims.UserID); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
