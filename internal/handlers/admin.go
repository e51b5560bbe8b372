package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/repository"
)

type AdminHandler struct {
	Repo *repository.AdminRepository
}

type AdminUserResponse struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	Name        *string       `json:"name,omitempty"`
	Currency    currency.Code `json:"currency"`
	Itineraries int           `json:"itineraries"`
	CreatedAt   time.Time     `json:"created_at"`
}

type AdminAIRequestResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	RequestType  string    `json:"request_type"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	LatencyMS    int64     `json:"latency_ms"`
	Prompt       *string   `json:"prompt,omitempty"`
	RawResponse  *string   `json:"raw_response,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminUsageDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AdminUsageResponse struct {
	Users               int             `json:"users"`
	Itineraries         int             `json:"itineraries"`
	FallbackItineraries int             `json:"fallback_itineraries"`
	Expenses            int             `json:"expenses"`
	AIRequests          int             `json:"ai_requests"`
	AISuccess           int             `json:"ai_success"`
	AIFail              int             `json:"ai_fail"`
	AvgLatencyMS        float64         `json:"avg_latency_ms"`
	AIRequestsByDay     []AdminUsageDay `json:"ai_requests_by_day"`
}

// ListUsers возвращает пользователей с числом их маршрутов.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset, ok := parsePagination(c, 50, 200)
	if !ok {
		return badRequest(c, "invalid pagination")
	}

	users, total, err := h.Repo.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminUserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, AdminUserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Currency:    user.Currency,
			Itineraries: user.Itineraries,
			CreatedAt:   user.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"total": total, "users": response})
}

// ListAIRequests возвращает логи обращений к модели; include_text=true добавляет промпт и ответ.
func (h *AdminHandler) ListAIRequests(c echo.Context) error {
	limit, offset, ok := parsePagination(c, 50, 200)
	if !ok {
		return badRequest(c, "invalid pagination")
	}

	filter := repository.AIRequestFilter{}
	if raw := strings.TrimSpace(c.QueryParam("user_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid user_id")
		}
		filter.UserID = &parsed
	}
	if raw := strings.TrimSpace(c.QueryParam("success")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid success")
		}
		filter.Success = &parsed
	}
	if raw := strings.TrimSpace(c.QueryParam("provider")); raw != "" {
		filter.Provider = &raw
	}

	withText, err := strconv.ParseBool(c.QueryParam("include_text"))
	if err != nil && c.QueryParam("include_text") != "" {
		return badRequest(c, "invalid include_text")
	}

	records, total, err := h.Repo.ListAIRequests(c.Request().Context(), filter, limit, offset, withText)
	if err != nil {
		return serverError(c)
	}

	response := make([]AdminAIRequestResponse, 0, len(records))
	for _, record := range records {
		response = append(response, AdminAIRequestResponse{
			ID:           record.ID,
			UserID:       record.UserID,
			RequestType:  record.RequestType,
			Provider:     record.Provider,
			Model:        record.Model,
			Success:      record.Success,
			ErrorMessage: record.ErrorMessage,
			LatencyMS:    record.LatencyMS,
			Prompt:       record.Prompt,
			RawResponse:  record.RawResponse,
			CreatedAt:    record.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"total": total, "requests": response})
}

// Usage возвращает агрегированную статистику за последние N дней.
func (h *AdminHandler) Usage(c echo.Context) error {
	days, ok := queryInt(c, "days", 7, 30)
	if !ok {
		return badRequest(c, "invalid days")
	}

	stats, err := h.Repo.UsageStats(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid days")
		}
		return serverError(c)
	}

	byDay := make([]AdminUsageDay, 0, len(stats.AIRequestsByDay))
	for _, day := range stats.AIRequestsByDay {
		byDay = append(byDay, AdminUsageDay{Date: day.Day.Format(dateLayout), Count: day.Count})
	}

	return c.JSON(http.StatusOK, AdminUsageResponse{
		Users:               stats.Users,
		Itineraries:         stats.Itineraries,
		FallbackItineraries: stats.FallbackItineraries,
		Expenses:            stats.Expenses,
		AIRequests:          stats.AIRequests,
		AISuccess:           stats.AISuccess,
		AIFail:              stats.AIFail,
		AvgLatencyMS:        stats.AvgLatencyMS,
		AIRequestsByDay:     byDay,
	})
}

// AdminOnly пропускает только пользователей из списка администраторов.
func AdminOnly(users *repository.UserRepository, emails []string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if email = normalizeEmail(email); email != "" {
			allowed[email] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := auth.UserIDFromContext(c)
			if !ok {
				return unauthorized(c)
			}
			if len(allowed) == 0 {
				return forbidden(c)
			}

			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return forbidden(c)
				}
				return serverError(c)
			}

			if _, ok := allowed[normalizeEmail(user.Email)]; !ok {
				return forbidden(c)
			}
			return next(c)
		}
	}
}
