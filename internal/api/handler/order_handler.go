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

type OrderHandler struct {
	orderService *service.OrderService
	validate     *validator.Validate
	errors       *common.ErrorTranslator
}

func NewOrderHandler(orderService *service.OrderService, errors *common.ErrorTranslator) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
		errors:       errors,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All order routes require auth

	r.Post("/", h.create)
	r.Get("/list", h.list)
	r.Get("/{orderId}", h.get)
	r.Put("/{orderId}", h.update)
	r.Delete("/{orderId}", h.remove)
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), userID, req)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	order, err := h.orderService.GetByRef(r.Context(), userID, chi.URLParam(r, "orderId"))
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	orders, err := h.orderService.ListMine(r.Context(), userID)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	var req service.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), userID, chi.URLParam(r, "orderId"), req)
	if err != nil {
		h.errors.Respond(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
		return
	}

	if err := h.orderService.Delete(r.Context(), userID, chi.URLParam(r, "orderId")); err != nil {
		h.errors.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
