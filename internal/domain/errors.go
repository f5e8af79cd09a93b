package domain

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrInsufficientTickets  = errors.New("not enough tickets available")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketCancelled      = errors.New("ticket already cancelled")
	ErrStorageConflict      = errors.New("storage conflict")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidID            = errors.New("invalid id")
	ErrEventFieldsRequired  = errors.New("all event fields are required")
	ErrEventHasTickets      = errors.New("event has sold tickets")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user with this admission number already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrWeakPassword         = errors.New("password must be at least 6 characters long")
	ErrRegistrationRequired = errors.New("admission number, name, and password are required")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrInvalidToken         = errors.New("invalid token")
	ErrNoProfileFields      = errors.New("no fields to update")
)
