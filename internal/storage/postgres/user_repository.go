package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/domain"
)

// UserRepository backs the authentication collaborator.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, admission_number, name, email, password_hash, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, admission_number, name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.AdmissionNumber,
		user.Name,
		nullIfEmpty(user.Email),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE admission_number = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, admissionNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user by admission number: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile updates name and/or email; empty arguments leave the stored
// value unchanged.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID, name, email string) error {
	const stmt = `
UPDATE users
SET name = COALESCE(NULLIF($2, ''), name),
    email = COALESCE(NULLIF($3, ''), email),
    updated_at = NOW()
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, userID, name, email)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var email *string
	err := row.Scan(
		&u.ID,
		&u.AdmissionNumber,
		&u.Name,
		&email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if email != nil {
		u.Email = *email
	}
	return u, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
