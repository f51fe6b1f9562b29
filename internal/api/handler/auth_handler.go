package handler

import (
	"encoding/json"
	"net/http"

	"order_api/internal/api/middleware"
	"order_api/internal/app/service"
	"order_api/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
	errors      *common.ErrorTranslator
}

func NewAuthHandler(authService *service.AuthService, errors *common.ErrorTranslator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		errors:      errors,
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(self chi.Router) {
		self.Use(middleware.Authenticator)
		self.Use(middleware.SelfOnly)
		self.Put("/{userId}", h.alter)
		self.Delete("/{userId}", h.remove)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

type alterRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *AuthHandler) alter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	var req alterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.authService.Rename(r.Context(), userID, req.Username)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	if err := h.authService.Delete(r.Context(), userID); err != nil {
		h.errors.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
