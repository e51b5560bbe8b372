package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/notifications"
	"example.com/ai-travel-planner/internal/repository"
)

type ExpenseHandler struct {
	Itineraries *repository.ItineraryRepository
	Expenses    *repository.ExpenseRepository
	Users       *repository.UserRepository
	Notifier    *notifications.Hub
}

type CreateExpenseRequest struct {
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description" validate:"max=500"`
	Date        string  `json:"date"`
}

type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
	Budget   BudgetResponse   `json:"budget"`
}

// Create добавляет расход к маршруту и рассылает обновленную сводку бюджета.
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itineraryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid itinerary id")
	}

	var req CreateExpenseRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	category, valid := budget.ParseCategory(req.Category)
	if !valid {
		return badRequest(c, "unknown category")
	}

	spentOn := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			return badRequest(c, "invalid date")
		}
		spentOn = parsed
	}

	expense, err := h.Expenses.Create(c.Request().Context(), userID, repository.CreateExpenseInput{
		ItineraryID: itineraryID,
		Category:    category,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		SpentOn:     spentOn,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "itinerary not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "invalid expense")
		default:
			return serverError(c)
		}
	}

	h.publishSummary(c.Request().Context(), userID, itineraryID)
	return c.JSON(http.StatusCreated, expense)
}

// List возвращает расходы маршрута вместе со сводкой бюджета.
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itineraryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid itinerary id")
	}

	record, expenses, err := h.load(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return itineraryLookupError(c, err)
	}

	summary := budget.Summarize(record.Budget, models.BudgetExpenses(expenses))
	return c.JSON(http.StatusOK, ExpenseListResponse{
		Expenses: expenses,
		Budget:   toBudgetResponse(summary, lookupCurrency(c.Request().Context(), h.Users, userID)),
	})
}

// Delete удаляет расход и рассылает обновленную сводку бюджета.
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	expenseID, ok := parseUUIDParam(c, "expenseId")
	if !ok {
		return badRequest(c, "invalid expense id")
	}

	itineraryID, err := h.Expenses.Delete(c.Request().Context(), userID, expenseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	h.publishSummary(c.Request().Context(), userID, itineraryID)
	return c.NoContent(http.StatusNoContent)
}

// Budget возвращает сводку бюджета маршрута.
func (h *ExpenseHandler) Budget(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itineraryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid itinerary id")
	}

	record, expenses, err := h.load(c.Request().Context(), userID, itineraryID)
	if err != nil {
		return itineraryLookupError(c, err)
	}

	summary := budget.Summarize(record.Budget, models.BudgetExpenses(expenses))
	return c.JSON(http.StatusOK, toBudgetResponse(summary, lookupCurrency(c.Request().Context(), h.Users, userID)))
}

func (h *ExpenseHandler) load(ctx context.Context, userID, itineraryID uuid.UUID) (models.Itinerary, []models.Expense, error) {
	record, err := h.Itineraries.GetByID(ctx, userID, itineraryID)
	if err != nil {
		return record, nil, err
	}
	expenses, err := h.Expenses.ListByItinerary(ctx, userID, itineraryID)
	return record, expenses, err
}

// publishSummary пересчитывает бюджет и отправляет budget_updated подписчикам.
func (h *ExpenseHandler) publishSummary(ctx context.Context, userID, itineraryID uuid.UUID) {
	if h.Notifier == nil || h.Notifier.Subscribers(userID) == 0 {
		return
	}

	record, expenses, err := h.load(ctx, userID, itineraryID)
	if err != nil {
		slog.Warn("budget update skipped", slog.String("itinerary_id", itineraryID.String()), slog.Any("error", err))
		return
	}

	summary := budget.Summarize(record.Budget, models.BudgetExpenses(expenses))
	h.Notifier.Publish(userID, notifications.EventBudgetUpdated, budgetUpdate(itineraryID, summary))
}

func budgetUpdate(itineraryID uuid.UUID, summary budget.Summary) notifications.BudgetUpdate {
	return notifications.BudgetUpdate{
		ItineraryID: itineraryID,
		Spent:       summary.Spent,
		Remaining:   summary.Remaining,
		PercentUsed: summary.PercentUsed,
		Status:      string(summary.Status),
	}
}
