package api

import (
	"net/http"
	"time"

	"order_api/internal/api/handler"
	"order_api/internal/app/service"
	"order_api/internal/common"
	"order_api/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	orderService *service.OrderService,
	tokens *security.TokenManager,
	errTranslator *common.ErrorTranslator,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses "Authorization: Bearer <token>" and puts the result in the
	// context; Authenticator decides per route group whether it is required.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(authService, errTranslator)
	r.Route("/auth", authHandler.RegisterRoutes)

	orderHandler := handler.NewOrderHandler(orderService, errTranslator)
	r.Route("/order", orderHandler.RegisterRoutes)

	return r
}
