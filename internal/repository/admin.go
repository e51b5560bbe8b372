package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/currency"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminUser struct {
	ID          uuid.UUID
	Email       string
	Name        *string
	Currency    currency.Code
	Itineraries int
	CreatedAt   time.Time
}

type AIRequestFilter struct {
	UserID   *uuid.UUID
	Success  *bool
	Provider *string
}

type AIRequestRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RequestType  string
	Provider     string
	Model        string
	Prompt       *string
	RawResponse  *string
	Success      bool
	ErrorMessage *string
	LatencyMS    int64
	CreatedAt    time.Time
}

type DailyCount struct {
	Day   time.Time
	Count int
}

type UsageStats struct {
	Users               int
	Itineraries         int
	FallbackItineraries int
	Expenses            int
	AIRequests          int
	AISuccess           int
	AIFail              int
	AvgLatencyMS        float64
	AIRequestsByDay     []DailyCount
}

// NewAdminRepository создает репозиторий для админских запросов.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListUsers возвращает пользователей с числом их маршрутов.
func (r *AdminRepository) ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.email, u.name, u.currency, u.created_at,
		        (SELECT COUNT(*) FROM itineraries i WHERE i.user_id = u.id)
		 FROM users u
		 ORDER BY u.created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]AdminUser, 0)
	for rows.Next() {
		var user AdminUser
		var code string
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &code, &user.CreatedAt, &user.Itineraries); err != nil {
			return nil, 0, err
		}
		user.Currency = currency.Code(code)
		users = append(users, user)
	}

	return users, total, rows.Err()
}

// ListAIRequests возвращает логи обращений к модели и их общее число по фильтру.
func (r *AdminRepository) ListAIRequests(ctx context.Context, filter AIRequestFilter, limit, offset int, withText bool) ([]AIRequestRecord, int, error) {
	where, args := filter.where()

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM ai_requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, request_type, provider, model, prompt, raw_response, success, error_message, latency_ms, created_at
		 FROM ai_requests%s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]AIRequestRecord, 0)
	for rows.Next() {
		var record AIRequestRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.RequestType,
			&record.Provider,
			&record.Model,
			&record.Prompt,
			&record.RawResponse,
			&record.Success,
			&record.ErrorMessage,
			&record.LatencyMS,
			&record.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if !withText {
			record.Prompt = nil
			record.RawResponse = nil
		}
		records = append(records, record)
	}

	return records, total, rows.Err()
}

// UsageStats возвращает агрегированную статистику за N дней.
func (r *AdminRepository) UsageStats(ctx context.Context, days int) (UsageStats, error) {
	stats := UsageStats{}
	if days <= 0 {
		return stats, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM itineraries),
		        (SELECT COUNT(*) FROM itineraries WHERE source = 'fallback'),
		        (SELECT COUNT(*) FROM expenses)`,
	).Scan(&stats.Users, &stats.Itineraries, &stats.FallbackItineraries, &stats.Expenses)
	if err != nil {
		return stats, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE success),
		        COUNT(*) FILTER (WHERE NOT success),
		        COALESCE(AVG(latency_ms), 0)::float8
		 FROM ai_requests`,
	).Scan(&stats.AIRequests, &stats.AISuccess, &stats.AIFail, &stats.AvgLatencyMS)
	if err != nil {
		return stats, err
	}

	start := time.Now().UTC().AddDate(0, 0, -days+1)
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at)::date AS day, COUNT(*)
		 FROM ai_requests
		 WHERE created_at >= $1
		 GROUP BY day
		 ORDER BY day DESC`,
		start,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	stats.AIRequestsByDay = make([]DailyCount, 0)
	for rows.Next() {
		var row DailyCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return stats, err
		}
		stats.AIRequestsByDay = append(stats.AIRequestsByDay, row)
	}

	return stats, rows.Err()
}

func (f AIRequestFilter) where() (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.UserID != nil {
		args = append(args, *f.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Success != nil {
		args = append(args, *f.Success)
		clauses = append(clauses, fmt.Sprintf("success = $%d", len(args)))
	}
	if f.Provider != nil {
		args = append(args, *f.Provider)
		clauses = append(clauses, fmt.Sprintf("provider = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
