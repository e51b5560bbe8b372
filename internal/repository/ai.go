package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AIRepository struct {
	db *pgxpool.Pool
}

type AIRequestLog struct {
	UserID         uuid.UUID
	RequestType    string
	Provider       string
	Model          string
	Prompt         string
	RequestPayload []byte
	RawResponse    string
	Success        bool
	ErrorMessage   *string
	Latency        time.Duration
}

// NewAIRepository создает репозиторий для AI-запросов.
func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет лог обращения к модели.
func (r *AIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (user_id, request_type, provider, model, prompt, request_payload, raw_response, success, error_message, latency_ms)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::jsonb, $7, $8, $9, $10)`,
		log.UserID,
		log.RequestType,
		log.Provider,
		log.Model,
		log.Prompt,
		string(log.RequestPayload),
		log.RawResponse,
		log.Success,
		log.ErrorMessage,
		log.Latency.Milliseconds(),
	)
	return err
}
