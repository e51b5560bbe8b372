package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/models"
)

const itineraryColumns = `id, user_id, destination, start_date, end_date, budget, group_size, preferences, content, source, created_at`

type ItineraryRepository struct {
	db *pgxpool.Pool
}

type CreateItineraryInput struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	GroupSize   int
	Preferences models.TripPreferences
	Content     string
	Source      models.ItinerarySource
}

// ItinerarySummary — строка списка поездок с суммой расходов.
type ItinerarySummary struct {
	models.Itinerary
	Spent float64
}

// NewItineraryRepository создает репозиторий маршрутов.
func NewItineraryRepository(db *pgxpool.Pool) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// Create сохраняет сгенерированный маршрут.
func (r *ItineraryRepository) Create(ctx context.Context, userID uuid.UUID, input CreateItineraryInput) (models.Itinerary, error) {
	if input.EndDate.Before(input.StartDate) || input.GroupSize <= 0 || input.Budget < 0 {
		return models.Itinerary{}, ErrInvalid
	}

	preferences, err := json.Marshal(input.Preferences)
	if err != nil {
		return models.Itinerary{}, fmt.Errorf("marshal preferences: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO itineraries (user_id, destination, start_date, end_date, budget, group_size, preferences, content, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+itineraryColumns,
		userID, input.Destination, input.StartDate, input.EndDate, input.Budget, input.GroupSize,
		preferences, input.Content, string(input.Source),
	)

	itinerary, err := scanItinerary(row)
	if err != nil {
		return itinerary, mapPgError(err)
	}
	return itinerary, nil
}

// GetByID возвращает маршрут пользователя; чужой маршрут считается ненайденным.
func (r *ItineraryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Itinerary, error) {
	return scanItinerary(r.db.QueryRow(ctx,
		`SELECT `+itineraryColumns+` FROM itineraries WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

// ListByUser возвращает маршруты пользователя, новые первыми, с суммой расходов.
func (r *ItineraryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ItinerarySummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.id, i.user_id, i.destination, i.start_date, i.end_date, i.budget, i.group_size,
		        i.preferences, i.content, i.source, i.created_at,
		        COALESCE((SELECT SUM(e.amount) FROM expenses e WHERE e.itinerary_id = i.id), 0)
		 FROM itineraries i
		 WHERE i.user_id = $1
		 ORDER BY i.created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ItinerarySummary, 0)
	for rows.Next() {
		var item ItinerarySummary
		if err := scanItineraryInto(rows, &item.Itinerary, &item.Spent); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete удаляет маршрут вместе с его расходами в одной транзакции.
func (r *ItineraryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM itineraries WHERE id = $1 AND user_id = $2)`,
			id, userID,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM expenses WHERE itinerary_id = $1`, id); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
		return err
	})
}

func scanItinerary(row pgx.Row) (models.Itinerary, error) {
	var itinerary models.Itinerary
	err := scanItineraryInto(row, &itinerary)
	if errors.Is(err, pgx.ErrNoRows) {
		return itinerary, ErrNotFound
	}
	return itinerary, err
}

func scanItineraryInto(row pgx.Row, itinerary *models.Itinerary, extra ...any) error {
	var preferences []byte
	var source string

	dest := []any{
		&itinerary.ID, &itinerary.UserID, &itinerary.Destination, &itinerary.StartDate, &itinerary.EndDate,
		&itinerary.Budget, &itinerary.GroupSize, &preferences, &itinerary.Content, &source, &itinerary.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	itinerary.Source = models.ItinerarySource(source)
	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &itinerary.Preferences); err != nil {
			return fmt.Errorf("decode preferences: %w", err)
		}
	}
	return nil
}
