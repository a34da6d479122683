package menu

import (
	"net/http"

	"warung-pos/internal/database"
	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/services/auth"
	"warung-pos/internal/services/web"
)

// Handler handles HTTP requests for the menu catalog.
type Handler struct {
	service *Service
	auth    *auth.Service
	logger  *logger.Logger
}

// NewHandler creates a new menu handler.
func NewHandler(service *Service, authService *auth.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    authService,
		logger:  log,
	}
}

// Register wires the menu routes into the mux. Reads are open to all staff,
// catalog edits are admin only.
func (h *Handler) Register(mux *http.ServeMux) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return h.auth.Authenticate(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return h.auth.Authenticate(h.auth.RequireAdmin(fn))
	}

	mux.Handle("GET /api/menu", protect(h.List))
	mux.Handle("GET /api/menu/{id}", protect(h.Get))
	mux.Handle("POST /api/menu", admin(h.Create))
	mux.Handle("PUT /api/menu/{id}", admin(h.Update))
	mux.Handle("DELETE /api/menu/{id}", admin(h.Delete))
	mux.Handle("PATCH /api/menu/{id}/availability", protect(h.SetAvailability))
}

// List handles GET /api/menu.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.MenuFilter{Category: q.Get("category")}
	if v := q.Get("available"); v != "" {
		available := v == "true"
		filter.Available = &available
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, items)
}

// Get handles GET /api/menu/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

// Create handles POST /api/menu.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.CreateMenuItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	item, err := h.service.Create(r.Context(), &req, requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/menu/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.UpdateMenuItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	item, err := h.service.Update(r.Context(), r.PathValue("id"), &req, requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/menu/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if err := h.service.Delete(r.Context(), r.PathValue("id"), requestID); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

// SetAvailability handles PATCH /api/menu/{id}/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	if req.IsAvailable == nil {
		web.WriteError(w, http.StatusBadRequest, "is_available is required", requestID)
		return
	}

	item, err := h.service.SetAvailability(r.Context(), r.PathValue("id"), *req.IsAvailable, requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}
