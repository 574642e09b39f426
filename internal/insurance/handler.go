package insurance

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notkisk/policeplus-api/internal/platform/httpx"
	"github.com/notkisk/policeplus-api/internal/shared"
)

// Handler serves the insurance service API.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers insurance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/insurance/{plate}", h.getByPlate)
}

func (h *Handler) getByPlate(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")
	record, err := h.repo.FindByPlate(r.Context(), plate)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "No insurance found")
			return
		}
		h.logger.Error("insurance lookup", slog.String("plate", plate), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Database error")
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}
