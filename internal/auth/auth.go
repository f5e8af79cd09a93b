// Package auth is the authentication collaborator: it owns accounts and
// token issuance, and hands the purchase engine nothing but an opaque,
// authenticated user id. Login never creates an account; registration and
// login are strictly separate operations.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/clock"
	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.User, error)
	GetUserByID(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) error
}

type Service struct {
	repo     UserRepository
	clock    clock.Clock
	secret   []byte
	tokenTTL time.Duration
}

const bcryptCost = 10
const minPasswordLen = 6

func NewService(repo UserRepository, clk clock.Clock, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		clock:    clk,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

type Claims struct {
	UserID          string `json:"user_id"`
	AdmissionNumber string `json:"admission_number"`
	Name            string `json:"name"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	AdmissionNumber string
	Name            string
	Email           string
	Password        string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	if in.AdmissionNumber == "" || in.Name == "" || in.Password == "" {
		return domain.User{}, "", domain.ErrRegistrationRequired
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, "", domain.ErrWeakPassword
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return domain.User{}, "", domain.ErrInvalidEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return domain.User{}, "", err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:              uuid.NewString(),
		AdmissionNumber: in.AdmissionNumber,
		Name:            in.Name,
		Email:           in.Email,
		PasswordHash:    string(hash),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, admissionNumber, password string) (domain.User, string, error) {
	if admissionNumber == "" || password == "" {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// IssueToken mints an HS256 JWT carrying the user identity.
func (s *Service) IssueToken(user domain.User) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID:          user.ID,
		AdmissionNumber: user.AdmissionNumber,
		Name:            user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses and validates a bearer token, returning its claims.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, email string) (domain.User, error) {
	if name == "" && email == "" {
		return domain.User{}, domain.ErrNoProfileFields
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.User{}, domain.ErrInvalidEmail
		}
	}
	if err := s.repo.UpdateProfile(ctx, userID, name, email); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetUserByID(ctx, userID)
}
