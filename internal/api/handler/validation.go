package handler

import (
	"errors"
	"net/http"

	"order_api/internal/common"

	"github.com/go-playground/validator/v10"
)

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type validationResponse struct {
	Message string       `json:"message"`
	Details []fieldError `json:"details"`
}

// respondValidationError turns validator errors into a structured 400
// before any service code runs.
func respondValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		common.RespondWithError(w, http.StatusBadRequest, "validation failed")
		return
	}

	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	common.RespondWithJSON(w, http.StatusBadRequest, validationResponse{
		Message: "validation failed",
		Details: details,
	})
}
