package order

import (
	"net/http"

	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/services/auth"
	"warung-pos/internal/services/web"
	"warung-pos/internal/storage"
)

// Handler handles HTTP requests for the order lifecycle.
type Handler struct {
	service *Service
	auth    *auth.Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, authService *auth.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    authService,
		logger:  log,
	}
}

// Register wires the order routes into the mux. All routes require a valid
// token.
func (h *Handler) Register(mux *http.ServeMux) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return h.auth.Authenticate(fn)
	}
	mux.Handle("POST /api/orders", protect(h.Create))
	mux.Handle("GET /api/orders", protect(h.List))
	mux.Handle("GET /api/orders/active", protect(h.ListActive))
	mux.Handle("GET /api/orders/{id}", protect(h.Get))
	mux.Handle("PUT /api/orders/{id}/items", protect(h.ReplaceItems))
	mux.Handle("PATCH /api/orders/{id}/status", protect(h.ChangeStatus))
}

func userID(r *http.Request) *string {
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		return &claims.UserID
	}
	return nil
}

// Create handles POST /api/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.CreateOrderRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	order, err := h.service.Create(r.Context(), &req, userID(r), requestID)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"order_type": req.OrderType,
		})
		web.WriteServiceError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

// List handles GET /api/orders with optional filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.OrderFilter{
		Status:        q.Get("status"),
		OrderType:     q.Get("order_type"),
		PaymentStatus: q.Get("payment_status"),
		DateFrom:      q.Get("date_from"),
		DateTo:        q.Get("date_to"),
		Search:        q.Get("search"),
	}

	orders, err := h.service.List(r.Context(), filter)
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

// ListActive handles GET /api/orders/active.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListActive(r.Context())
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

// ReplaceItems handles PUT /api/orders/{id}/items.
func (h *Handler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.UpdateOrderItemsRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	order, err := h.service.ReplaceItems(r.Context(), r.PathValue("id"), &req, userID(r), requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

// ChangeStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.ChangeStatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	order, err := h.service.ChangeStatus(r.Context(), r.PathValue("id"), &req, userID(r), requestID)
	if err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}
