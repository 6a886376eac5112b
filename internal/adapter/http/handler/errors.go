package handler

import (
	"net/http"

	t "github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/internal/service/account"
)

// GetCode maps a domain error to an HTTP status code.
func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrMissingField, t.ErrInvalidEmail, t.ErrWeakPassword, t.ErrPasswordMismatch, t.ErrEmptyLocation, t.ErrInvalidSessionID):
		return http.StatusBadRequest
	case IsOneOf(err, account.ErrInvalidCredentials, account.ErrInvalidToken, account.ErrExpToken):
		return http.StatusUnauthorized
	case IsOneOf(err, t.ErrAccountNotFound, t.ErrSessionNotFound):
		return http.StatusNotFound
	case IsOneOf(err, t.ErrEmailExists):
		return http.StatusConflict
	case IsOneOf(err, t.ErrStoreTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// Fall back to a bare 500 when even the error body cannot be encoded.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 Unprocessable Entity: the request was
// well-formed but failed field-level validation, and repeating it unchanged
// will fail the same way.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}
