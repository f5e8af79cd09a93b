package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidID            = "invalid_id"
	codeEventNotFound        = "event_not_found"
	codeInsufficientTickets  = "insufficient_tickets"
	codeTicketNotFound       = "ticket_not_found"
	codeTicketCancelled      = "ticket_already_cancelled"
	codeStorageConflict      = "storage_conflict"
	codeEventFieldsRequired  = "event_fields_required"
	codeEventHasTickets      = "event_has_tickets"
	codeInvalidPrice         = "invalid_price"
	codeUnauthorized         = "unauthorized"
	codeUserExists           = "user_exists"
	codeInvalidCredentials   = "invalid_credentials"
	codeWeakPassword         = "weak_password"
	codeRegistrationRequired = "registration_required"
	codeInvalidEmail         = "invalid_email"
	codeNoProfileFields      = "no_fields_to_update"
	codeUserNotFound         = "user_not_found"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain errors onto HTTP statuses and stable error
// codes. Anything unrecognized is reported as a plain internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientTickets):
		writeError(w, http.StatusConflict, codeInsufficientTickets, err.Error())
	case errors.Is(err, domain.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
	case errors.Is(err, domain.ErrTicketCancelled):
		writeError(w, http.StatusConflict, codeTicketCancelled, err.Error())
	case errors.Is(err, domain.ErrStorageConflict):
		writeError(w, http.StatusConflict, codeStorageConflict, "please retry the request")
	case errors.Is(err, domain.ErrEventHasTickets):
		writeError(w, http.StatusConflict, codeEventHasTickets, err.Error())
	case errors.Is(err, domain.ErrEventFieldsRequired):
		writeError(w, http.StatusBadRequest, codeEventFieldsRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrUserExists):
		writeError(w, http.StatusBadRequest, codeUserExists, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, domain.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, codeWeakPassword, err.Error())
	case errors.Is(err, domain.ErrRegistrationRequired):
		writeError(w, http.StatusBadRequest, codeRegistrationRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, codeInvalidEmail, err.Error())
	case errors.Is(err, domain.ErrNoProfileFields):
		writeError(w, http.StatusBadRequest, codeNoProfileFields, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
