package payment

import (
	"net/http"

	"warung-pos/internal/logger"
	"warung-pos/internal/models"
	"warung-pos/internal/services/auth"
	"warung-pos/internal/services/web"
)

// Handler handles HTTP requests for settlement and debts.
type Handler struct {
	service *Service
	auth    *auth.Service
	logger  *logger.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service, authService *auth.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    authService,
		logger:  log,
	}
}

// Register wires the payment routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return h.auth.Authenticate(fn)
	}
	mux.Handle("POST /api/payments", protect(h.Settle))
	mux.Handle("GET /api/payments/debts", protect(h.ListDebts))
	mux.Handle("PATCH /api/payments/debts/{id}/pay", protect(h.PayOffDebt))
}

// Settle handles POST /api/payments.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.SettleRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}

	var userID *string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		userID = &claims.UserID
	}

	result, err := h.service.Settle(r.Context(), &req, userID, requestID)
	if err != nil {
		h.logger.Error("payment_failed", "Failed to apply payment batch", requestID, err, map[string]interface{}{
			"order_id": req.OrderID,
		})
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, result)
}

// ListDebts handles GET /api/payments/debts.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.service.ListDebts(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, debts)
}

// PayOffDebt handles PATCH /api/payments/debts/{id}/pay.
func (h *Handler) PayOffDebt(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if err := h.service.PayOff(r.Context(), r.PathValue("id"), requestID); err != nil {
		web.WriteServiceError(w, err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "Hutang berhasil dilunasi"})
}
