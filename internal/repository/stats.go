package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/budget"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type OverviewStats struct {
	TotalTrips    int
	UpcomingTrips int
	PastTrips     int
	TotalBudget   float64
	TotalSpent    float64
}

type CategoryTotal struct {
	Category budget.Category
	Amount   float64
	Count    int
}

type MonthlySpending struct {
	Month  time.Time
	Budget float64
	Spent  float64
}

// NewStatsRepository создает репозиторий статистики.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview возвращает сводку по всем поездкам пользователя.
func (r *StatsRepository) Overview(ctx context.Context, userID uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE end_date >= CURRENT_DATE),
		        COUNT(*) FILTER (WHERE end_date < CURRENT_DATE),
		        COALESCE(SUM(budget), 0),
		        COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = $1), 0)
		 FROM itineraries
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalTrips, &stats.UpcomingTrips, &stats.PastTrips, &stats.TotalBudget, &stats.TotalSpent)

	return stats, err
}

// SpendingByCategory суммирует расходы по категориям; itineraryID сужает выборку до одной поездки.
func (r *StatsRepository) SpendingByCategory(ctx context.Context, userID uuid.UUID, itineraryID *uuid.UUID) ([]CategoryTotal, error) {
	if itineraryID != nil {
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM itineraries WHERE id = $1 AND user_id = $2)`,
			*itineraryID, userID,
		).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	rows, err := r.db.Query(ctx,
		`SELECT category, SUM(amount), COUNT(*)
		 FROM expenses
		 WHERE user_id = $1 AND ($2::uuid IS NULL OR itinerary_id = $2)
		 GROUP BY category
		 ORDER BY SUM(amount) DESC`,
		userID, itineraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0)
	for rows.Next() {
		var row CategoryTotal
		var category string
		if err := rows.Scan(&category, &row.Amount, &row.Count); err != nil {
			return nil, err
		}
		row.Category = budget.Category(category)
		totals = append(totals, row)
	}

	return totals, rows.Err()
}

// MonthlySpending сравнивает бюджет и расходы по месяцам начала поездок.
func (r *StatsRepository) MonthlySpending(ctx context.Context, userID uuid.UUID, months int) ([]MonthlySpending, error) {
	if months <= 0 {
		return nil, ErrInvalid
	}

	rows, err := r.db.Query(ctx,
		`WITH trip_spent AS (
			SELECT i.id,
			       date_trunc('month', i.start_date)::date AS month,
			       i.budget,
			       COALESCE(SUM(e.amount), 0) AS spent
			FROM itineraries i
			LEFT JOIN expenses e ON e.itinerary_id = i.id
			WHERE i.user_id = $1
			GROUP BY i.id, month, i.budget
		)
		SELECT month, SUM(budget), SUM(spent)
		FROM trip_spent
		GROUP BY month
		ORDER BY month DESC
		LIMIT $2`,
		userID, months,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]MonthlySpending, 0)
	for rows.Next() {
		var row MonthlySpending
		if err := rows.Scan(&row.Month, &row.Budget, &row.Spent); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	return items, rows.Err()
}
