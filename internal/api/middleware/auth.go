package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"order_api/internal/common"
	"order_api/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey    contextKey = "userID"
	UserEmailCtxKey contextKey = "userEmail"
)

// Authenticator rejects requests without a valid bearer token and puts
// the decoded identity into the request context. It relies on
// jwtauth.Verifier having already parsed the Authorization header.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "token expired or invalid")
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "token expired or invalid")
			return
		}
		email, err := security.GetEmailFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "token expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SelfOnly allows account self-service routes only when the numeric path
// id equals the authenticated id. Order routes do not use this; they
// check ownership against the record's owner field instead.
func SelfOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "token not provided")
			return
		}

		routeID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
		if err != nil || routeID != userID {
			common.RespondWithError(w, http.StatusForbidden, "action not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
