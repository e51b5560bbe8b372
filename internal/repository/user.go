package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/models"
)

const userColumns = `id, email, password_hash, name, currency, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя с валютой по умолчанию.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string, name *string) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, currency)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		email, passwordHash, name, string(currency.Default),
	)

	user, err := scanUser(row)
	if err != nil {
		return user, mapPgError(err)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UpdateCurrency меняет валюту отображения сумм.
func (r *UserRepository) UpdateCurrency(ctx context.Context, id uuid.UUID, code currency.Code) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users SET currency = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, string(code),
	)

	user, err := scanUser(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return user, mapPgError(err)
	}
	return user, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var code string

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &code, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}

	user.Currency = currency.Code(code)
	if _, ok := currency.Parse(code); !ok {
		user.Currency = currency.Default
	}
	return user, nil
}
