package accounts

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/notkisk/policeplus-api/internal/platform/httpx"
	"github.com/notkisk/policeplus-api/internal/shared"
)

// Handler wires HTTP endpoints for registration and login.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	loginLimit int
}

// NewHandler constructs a Handler instance. loginLimit caps login attempts
// per client IP per minute; zero disables throttling.
func NewHandler(logger *slog.Logger, service *Service, loginLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, loginLimit: loginLimit}
}

// MountRoutes registers account routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.registerOfficer)
	r.Post("/register/normal", h.registerCivilian)
	r.Group(func(r chi.Router) {
		if h.loginLimit > 0 {
			r.Use(httprate.LimitByIP(h.loginLimit, time.Minute))
		}
		r.Post("/login", h.loginOfficer)
		r.Post("/login/normal", h.loginCivilian)
	})
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      any       `json:"user"`
}

func (h *Handler) registerOfficer(w http.ResponseWriter, r *http.Request) {
	var input OfficerRegistration
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	officer, err := h.service.RegisterOfficer(r.Context(), input)
	if err != nil {
		// Officer registration reports uniqueness failures as 400 for client compatibility.
		if errors.Is(err, shared.ErrConflict) {
			httpx.Problem(w, http.StatusBadRequest, "Conflict", "email or badge number already exists")
			return
		}
		h.respondError(w, r, "register officer", err)
		return
	}
	h.logger.Info("officer registered", slog.Int64("officer_id", officer.ID), slog.String("badge_number", officer.BadgeNumber))
	httpx.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) registerCivilian(w http.ResponseWriter, r *http.Request) {
	var input CivilianRegistration
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	civilian, err := h.service.RegisterCivilian(r.Context(), input)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			httpx.Problem(w, http.StatusConflict, "Conflict", "email or license number already exists")
			return
		}
		h.respondError(w, r, "register civilian", err)
		return
	}
	h.logger.Info("civilian registered", slog.Int64("civilian_id", civilian.ID))
	httpx.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) loginOfficer(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	session, err := h.service.LoginOfficer(r.Context(), creds)
	if err != nil {
		h.respondError(w, r, "officer login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}

func (h *Handler) loginCivilian(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "request body must be valid JSON")
		return
	}
	session, err := h.service.LoginCivilian(r.Context(), creds)
	if err != nil {
		h.respondError(w, r, "civilian login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	})
}

// respondError logs unexpected failures and writes the mapped problem response.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
