package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/models"
)

const expenseColumns = `id, itinerary_id, user_id, category, amount, description, spent_on, created_at`

type ExpenseRepository struct {
	db *pgxpool.Pool
}

type CreateExpenseInput struct {
	ItineraryID uuid.UUID
	Category    budget.Category
	Amount      float64
	Description string
	SpentOn     time.Time
}

// NewExpenseRepository создает репозиторий расходов.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create добавляет расход, только если маршрут принадлежит пользователю.
func (r *ExpenseRepository) Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (models.Expense, error) {
	if !input.Category.Valid() || input.Amount < 0 {
		return models.Expense{}, ErrInvalid
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO expenses (itinerary_id, user_id, category, amount, description, spent_on)
		 SELECT i.id, i.user_id, $3::text, $4::numeric, $5::text, $6::date
		 FROM itineraries i
		 WHERE i.id = $1 AND i.user_id = $2
		 RETURNING `+expenseColumns,
		input.ItineraryID, userID, string(input.Category), input.Amount, input.Description, input.SpentOn,
	)

	expense, err := scanExpense(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return expense, mapPgError(err)
	}
	return expense, err
}

// ListByItinerary возвращает расходы маршрута, свежие первыми.
func (r *ExpenseRepository) ListByItinerary(ctx context.Context, userID, itineraryID uuid.UUID) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE itinerary_id = $1 AND user_id = $2
		 ORDER BY spent_on DESC, created_at DESC`,
		itineraryID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// Delete удаляет расход пользователя и возвращает идентификатор его маршрута.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) (uuid.UUID, error) {
	var itineraryID uuid.UUID
	err := r.db.QueryRow(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2 RETURNING itinerary_id`,
		id, userID,
	).Scan(&itineraryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return itineraryID, err
}

func scanExpense(row pgx.Row) (models.Expense, error) {
	var expense models.Expense
	var category string

	err := row.Scan(&expense.ID, &expense.ItineraryID, &expense.UserID, &category, &expense.Amount,
		&expense.Description, &expense.SpentOn, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expense, ErrNotFound
		}
		return expense, err
	}

	expense.Category = budget.Category(category)
	return expense, nil
}
