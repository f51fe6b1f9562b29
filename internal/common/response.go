package common

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// ErrorTranslator is the single boundary that turns errors escaping a
// handler into JSON responses. Every branch logs the raw error.
type ErrorTranslator struct {
	logger         *slog.Logger
	exposeInternal bool // include raw detail in 500 responses (non-production only)
}

func NewErrorTranslator(logger *slog.Logger, exposeInternal bool) *ErrorTranslator {
	return &ErrorTranslator{logger: logger, exposeInternal: exposeInternal}
}

func (t *ErrorTranslator) Respond(w http.ResponseWriter, err error) {
	status := HTTPStatusFromError(err)
	t.logger.Error("request failed", "status", status, "error", err)

	message := err.Error()
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case pgUniqueViolation:
			message = "a record with these values already exists"
		case pgForeignKeyViolation:
			message = "operation violates referential integrity"
		default:
			if !t.exposeInternal {
				message = "an unexpected error occurred"
			}
		}
	case errors.Is(err, sql.ErrNoRows):
		message = "requested record does not exist"
	case status == http.StatusInternalServerError && !t.exposeInternal:
		message = "an unexpected error occurred"
	}

	RespondWithError(w, status, message)
}
