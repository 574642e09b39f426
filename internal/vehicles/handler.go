package vehicles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notkisk/policeplus-api/internal/authz"
	"github.com/notkisk/policeplus-api/internal/platform/httpx"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
)

// IdempotencyHeader carries the optional client key for POST /ticket.
const IdempotencyHeader = "Idempotency-Key"

// Handler wires HTTP endpoints for vehicle lookup and enforcement actions.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    authz.Gate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers token-protected vehicle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate)
		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireRole(token.RoleOfficer))
			r.Get("/cars/{plate}", h.getVehicle)
			r.Post("/ticket", h.issueCitation)
			r.Post("/stolen_car/{plate}/{flag}", h.setStolen)
		})
		r.With(h.gate.RequireRole(token.RoleCivilian)).Get("/me/tickets", h.myCitations)
	})
}

type citationCreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")
	view, err := h.service.GetVehicleView(r.Context(), plate)
	if err != nil {
		h.respondError(w, r, "vehicle view", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) issueCitation(w http.ResponseWriter, r *http.Request) {
	var input CitationInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	claims := authz.ClaimsFromContext(r.Context())
	citation, err := h.service.IssueCitation(r.Context(), input, claims, r.Header.Get(IdempotencyHeader))
	if err != nil {
		h.respondError(w, r, "issue citation", err)
		return
	}
	h.logger.Info("citation issued",
		slog.Int64("ticket_id", citation.ID),
		slog.String("officer_badge", citation.OfficerBadge))
	httpx.JSON(w, http.StatusCreated, citationCreatedResponse{Message: "Ticket added successfully", ID: citation.ID})
}

func (h *Handler) setStolen(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")
	stolen, err := strconv.ParseBool(chi.URLParam(r, "flag"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "stolen flag must be true or false")
		return
	}
	claims := authz.ClaimsFromContext(r.Context())
	if err := h.service.SetStolen(r.Context(), plate, stolen, claims); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "car not found")
			return
		}
		h.respondError(w, r, "set stolen flag", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Car status updated successfully")
}

func (h *Handler) myCitations(w http.ResponseWriter, r *http.Request) {
	claims := authz.ClaimsFromContext(r.Context())
	citations, err := h.service.CitationsForDriver(r.Context(), claims.LicenseNumber)
	if err != nil {
		h.respondError(w, r, "list own citations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, citations)
}

// respondError logs unexpected failures and writes the mapped problem response.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
