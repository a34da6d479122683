package report

import (
	"net/http"

	"warung-pos/internal/logger"
	"warung-pos/internal/services/auth"
	"warung-pos/internal/services/web"
)

// Handler handles HTTP requests for sales reports. All routes are admin
// only.
type Handler struct {
	service *Service
	auth    *auth.Service
	logger  *logger.Logger
}

// NewHandler creates a new report handler.
func NewHandler(service *Service, authService *auth.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    authService,
		logger:  log,
	}
}

// Register wires the report routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return h.auth.Authenticate(h.auth.RequireAdmin(fn))
	}
	mux.Handle("GET /api/reports/daily", admin(h.Daily))
	mux.Handle("GET /api/reports/sales", admin(h.Sales))
	mux.Handle("GET /api/reports/menu-performance", admin(h.MenuPerformance))
}

// Daily handles GET /api/reports/daily.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, report)
}

// Sales handles GET /api/reports/sales.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.Sales(r.Context(), q.Get("from"), q.Get("to"), q.Get("period"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, report)
}

// MenuPerformance handles GET /api/reports/menu-performance.
func (h *Handler) MenuPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.MenuPerformance(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		web.WriteServiceError(w, err, "")
		return
	}
	web.WriteJSON(w, http.StatusOK, report)
}
