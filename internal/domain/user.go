package domain

import "time"

// User is the authentication collaborator's view of an account. The purchase
// engine only ever sees the opaque user id.
type User struct {
	ID              string
	AdmissionNumber string
	Name            string
	Email           string
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
