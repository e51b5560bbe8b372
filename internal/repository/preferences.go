package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/models"
)

const preferenceColumns = `user_id, favorite_activities, budget_range, travel_style, accommodation_preference,
	preferred_destinations, group_size, languages, special_requirements, updated_at`

type PreferencesRepository struct {
	db *pgxpool.Pool
}

// NewPreferencesRepository создает репозиторий предпочтений.
func NewPreferencesRepository(db *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get возвращает предпочтения пользователя или ErrNotFound.
func (r *PreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (models.UserPreferences, error) {
	return scanPreferences(r.db.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = $1`,
		userID,
	))
}

// Upsert создает или полностью перезаписывает предпочтения.
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs models.UserPreferences) (models.UserPreferences, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO user_preferences (user_id, favorite_activities, budget_range, travel_style, accommodation_preference,
		                               preferred_destinations, group_size, languages, special_requirements, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   favorite_activities = EXCLUDED.favorite_activities,
		   budget_range = EXCLUDED.budget_range,
		   travel_style = EXCLUDED.travel_style,
		   accommodation_preference = EXCLUDED.accommodation_preference,
		   preferred_destinations = EXCLUDED.preferred_destinations,
		   group_size = EXCLUDED.group_size,
		   languages = EXCLUDED.languages,
		   special_requirements = EXCLUDED.special_requirements,
		   updated_at = NOW()
		 RETURNING `+preferenceColumns,
		prefs.UserID,
		nonNil(prefs.FavoriteActivities),
		prefs.BudgetRange,
		prefs.TravelStyle,
		prefs.AccommodationPreference,
		nonNil(prefs.PreferredDestinations),
		prefs.GroupSize,
		nonNil(prefs.Languages),
		prefs.SpecialRequirements,
	)

	saved, err := scanPreferences(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return saved, mapPgError(err)
	}
	return saved, err
}

func scanPreferences(row pgx.Row) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := row.Scan(
		&prefs.UserID,
		&prefs.FavoriteActivities,
		&prefs.BudgetRange,
		&prefs.TravelStyle,
		&prefs.AccommodationPreference,
		&prefs.PreferredDestinations,
		&prefs.GroupSize,
		&prefs.Languages,
		&prefs.SpecialRequirements,
		&prefs.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return prefs, ErrNotFound
	}
	return prefs, err
}

// nonNil заменяет nil-срез пустым, чтобы не писать NULL в TEXT[] NOT NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
