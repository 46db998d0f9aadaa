package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (username, email, password_hash, date_of_birth, can_be_contacted, can_data_be_shared, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.DateOfBirth,
		u.CanBeContacted,
		u.CanDataBeShared,
	).Scan(&u.ID, &u.CreatedAt)
	if _, ok := uniqueViolation(err); ok {
		return &apperr.DuplicateError{Constraint: "username"}
	}
	return err
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
        SELECT id, username, email, password_hash, date_of_birth, can_be_contacted, can_data_be_shared, created_at
        FROM users
        WHERE username = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateOfBirth,
		&u.CanBeContacted, &u.CanDataBeShared, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
        SELECT id, username, email, password_hash, date_of_birth, can_be_contacted, can_data_be_shared, created_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateOfBirth,
		&u.CanBeContacted, &u.CanDataBeShared, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateConsents stores the user's current consent choices.
func (r *UserRepository) UpdateConsents(ctx context.Context, id int64, canBeContacted, canDataBeShared bool) error {
	query := `
        UPDATE users
        SET can_be_contacted = $1, can_data_be_shared = $2
        WHERE id = $3
    `
	tag, err := r.db.Exec(ctx, query, canBeContacted, canDataBeShared, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}
