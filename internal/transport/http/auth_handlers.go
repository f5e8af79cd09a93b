package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/auth"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// Registrar is the minimal interface needed to register accounts.
type Registrar interface {
	Register(ctx context.Context, in auth.RegisterInput) (domain.User, string, error)
}

// Authenticator is the minimal interface needed to log in.
type Authenticator interface {
	Login(ctx context.Context, admissionNumber, password string) (domain.User, string, error)
}

// ProfileService is the minimal interface needed for profile endpoints.
type ProfileService interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (domain.User, error)
}

// HandleRegister returns an HTTP handler for POST /api/auth/register.
func HandleRegister(svc Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, token, err := svc.Register(r.Context(), auth.RegisterInput{
			AdmissionNumber: req.AdmissionNumber,
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(authResponse{
			Message: "User registered successfully",
			Token:   token,
			User:    userToResponse(user),
		})
	}
}

// HandleLogin returns an HTTP handler for POST /api/auth/login. Login never
// creates an account: unknown admission numbers and wrong passwords are the
// same failure.
func HandleLogin(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, token, err := svc.Login(r.Context(), req.AdmissionNumber, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authResponse{
			Message: "Login successful",
			Token:   token,
			User:    userToResponse(user),
		})
	}
}

// HandleGetProfile returns an HTTP handler for GET /api/auth/me and
// GET /api/users/profile.
func HandleGetProfile(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetUser(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userToResponse(user))
	}
}

// HandleUpdateProfile returns an HTTP handler for PUT /api/users/profile.
func HandleUpdateProfile(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), req.Name, req.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userToResponse(user))
	}
}

type registerRequest struct {
	AdmissionNumber string `json:"admission_number"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
}

type loginRequest struct {
	AdmissionNumber string `json:"admission_number"`
	Password        string `json:"password"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type userResponse struct {
	ID              string    `json:"id"`
	AdmissionNumber string    `json:"admission_number"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func userToResponse(u domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		AdmissionNumber: u.AdmissionNumber,
		Name:            u.Name,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt,
	}
}
