package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/repository"
)

type ProfileHandler struct {
	Users       *repository.UserRepository
	Preferences *repository.PreferencesRepository
}

// NewProfileHandler создает обработчик валюты и предпочтений пользователя.
func NewProfileHandler(users *repository.UserRepository, preferences *repository.PreferencesRepository) *ProfileHandler {
	return &ProfileHandler{Users: users, Preferences: preferences}
}

type CurrencyResponse struct {
	Currency currency.Code `json:"currency"`
	Symbol   string        `json:"symbol"`
}

type UpdateCurrencyRequest struct {
	Currency string `json:"currency" validate:"required"`
}

type PreferencesRequest struct {
	FavoriteActivities      []string `json:"favorite_activities" validate:"omitempty,max=20,dive,max=60"`
	BudgetRange             *string  `json:"budget_range" validate:"omitempty,max=50"`
	TravelStyle             *string  `json:"travel_style" validate:"omitempty,max=50"`
	AccommodationPreference *string  `json:"accommodation_preference" validate:"omitempty,max=50"`
	PreferredDestinations   []string `json:"preferred_destinations" validate:"omitempty,max=20,dive,max=100"`
	GroupSize               *int     `json:"group_size" validate:"omitempty,min=1,max=50"`
	Languages               []string `json:"languages" validate:"omitempty,max=10,dive,max=40"`
	SpecialRequirements     *string  `json:"special_requirements" validate:"omitempty,max=500"`
}

// GetCurrency возвращает валюту отображения пользователя.
func (h *ProfileHandler) GetCurrency(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return userLookupError(c, err)
	}
	return c.JSON(http.StatusOK, currencyResponse(user.Currency))
}

// UpdateCurrency меняет валюту отображения; суммы в базе не пересчитываются.
func (h *ProfileHandler) UpdateCurrency(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req UpdateCurrencyRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	code, valid := currency.Parse(req.Currency)
	if !valid {
		return badRequest(c, "unsupported currency")
	}

	user, err := h.Users.UpdateCurrency(c.Request().Context(), userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "unsupported currency")
		}
		return userLookupError(c, err)
	}
	return c.JSON(http.StatusOK, currencyResponse(user.Currency))
}

// GetPreferences возвращает сохраненный профиль путешественника.
func (h *ProfileHandler) GetPreferences(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	prefs, err := h.Preferences.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "preferences not set")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences полностью заменяет профиль путешественника.
func (h *ProfileHandler) UpdatePreferences(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PreferencesRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	saved, err := h.Preferences.Upsert(c.Request().Context(), models.UserPreferences{
		UserID:                  userID,
		FavoriteActivities:      cleanList(req.FavoriteActivities),
		BudgetRange:             trimmedOrNil(req.BudgetRange),
		TravelStyle:             trimmedOrNil(req.TravelStyle),
		AccommodationPreference: trimmedOrNil(req.AccommodationPreference),
		PreferredDestinations:   cleanList(req.PreferredDestinations),
		GroupSize:               req.GroupSize,
		Languages:               cleanList(req.Languages),
		SpecialRequirements:     trimmedOrNil(req.SpecialRequirements),
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid preferences")
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, saved)
}

func currencyResponse(code currency.Code) CurrencyResponse {
	return CurrencyResponse{Currency: code, Symbol: currency.Symbol(code)}
}

// cleanList обрезает пробелы и убирает пустые и повторяющиеся значения.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}
