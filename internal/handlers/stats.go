package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
	Users *repository.UserRepository
}

type OverviewResponse struct {
	TotalTrips         int           `json:"total_trips"`
	UpcomingTrips      int           `json:"upcoming_trips"`
	PastTrips          int           `json:"past_trips"`
	TotalBudget        float64       `json:"total_budget"`
	TotalSpent         float64       `json:"total_spent"`
	Remaining          float64       `json:"remaining"`
	PercentUsed        float64       `json:"percent_used"`
	Status             budget.Status `json:"status"`
	Currency           currency.Code `json:"currency"`
	RemainingFormatted string        `json:"remaining_formatted"`
}

type CategorySpending struct {
	Category budget.Category `json:"category"`
	Amount   float64         `json:"amount"`
	Count    int             `json:"count"`
	Percent  float64         `json:"percent"`
}

type CategorySpendingResponse struct {
	ItineraryID *uuid.UUID         `json:"itinerary_id,omitempty"`
	Total       float64            `json:"total"`
	Categories  []CategorySpending `json:"categories"`
}

type MonthlySpendingItem struct {
	Month  string  `json:"month"`
	Budget float64 `json:"budget"`
	Spent  float64 `json:"spent"`
}

// Overview возвращает сводку по всем поездкам пользователя.
func (h *StatsHandler) Overview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.Stats.Overview(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	code := lookupCurrency(c.Request().Context(), h.Users, userID)
	summary := budget.Summarize(stats.TotalBudget, []budget.Expense{{Amount: stats.TotalSpent}})

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalTrips:         stats.TotalTrips,
		UpcomingTrips:      stats.UpcomingTrips,
		PastTrips:          stats.PastTrips,
		TotalBudget:        stats.TotalBudget,
		TotalSpent:         stats.TotalSpent,
		Remaining:          summary.Remaining,
		PercentUsed:        summary.PercentUsed,
		Status:             summary.Status,
		Currency:           code,
		RemainingFormatted: currency.Format(summary.Remaining, code),
	})
}

// SpendingByCategory возвращает расходы по категориям; itinerary_id сужает до одной поездки.
func (h *StatsHandler) SpendingByCategory(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var itineraryID *uuid.UUID
	if raw := strings.TrimSpace(c.QueryParam("itinerary_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid itinerary_id")
		}
		itineraryID = &parsed
	}

	totals, err := h.Stats.SpendingByCategory(c.Request().Context(), userID, itineraryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "itinerary not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, categorySpending(itineraryID, totals))
}

// Monthly сравнивает бюджет и расходы по месяцам начала поездок.
func (h *StatsHandler) Monthly(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	months, ok := queryInt(c, "months", 6, 24)
	if !ok {
		return badRequest(c, "invalid months")
	}

	items, err := h.Stats.MonthlySpending(c.Request().Context(), userID, months)
	if err != nil {
		return serverError(c)
	}

	response := make([]MonthlySpendingItem, 0, len(items))
	for _, item := range items {
		response = append(response, MonthlySpendingItem{
			Month:  item.Month.Format("2006-01"),
			Budget: item.Budget,
			Spent:  item.Spent,
		})
	}
	return c.JSON(http.StatusOK, map[string][]MonthlySpendingItem{"months": response})
}

func categorySpending(itineraryID *uuid.UUID, totals []repository.CategoryTotal) CategorySpendingResponse {
	response := CategorySpendingResponse{
		ItineraryID: itineraryID,
		Categories:  make([]CategorySpending, 0, len(totals)),
	}
	for _, item := range totals {
		response.Total += item.Amount
	}
	for _, item := range totals {
		percent := 0.0
		if response.Total > 0 {
			percent = item.Amount / response.Total * 100
		}
		response.Categories = append(response.Categories, CategorySpending{
			Category: item.Category,
			Amount:   item.Amount,
			Count:    item.Count,
			Percent:  percent,
		})
	}
	return response
}

// queryInt читает положительное целое из query с ограничением сверху.
func queryInt(c echo.Context, name string, fallback, maxValue int) (int, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return min(value, maxValue), true
}
