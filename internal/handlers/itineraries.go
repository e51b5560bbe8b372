package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/notifications"
	"example.com/ai-travel-planner/internal/repository"
	"example.com/ai-travel-planner/internal/seasonal"
)

const aiRequestGenerateItinerary = "generate_itinerary"

type ItineraryHandler struct {
	Service     *ai.Service
	Itineraries *repository.ItineraryRepository
	Expenses    *repository.ExpenseRepository
	Users       *repository.UserRepository
	Preferences *repository.PreferencesRepository
	AIRepo      *repository.AIRepository
	Notifier    *notifications.Hub
	Provider    string
	Model       string
}

type GenerateItineraryRequest struct {
	Destination string              `json:"destination" validate:"required,max=200"`
	StartDate   string              `json:"start_date" validate:"required"`
	EndDate     string              `json:"end_date" validate:"required"`
	Budget      float64             `json:"budget" validate:"gt=0"`
	GroupSize   int                 `json:"group_size" validate:"min=1,max=50"`
	Preferences TripPreferencesBody `json:"preferences"`
}

type TripPreferencesBody struct {
	Activities          []string `json:"activities" validate:"omitempty,max=20,dive,max=60"`
	TravelStyle         string   `json:"travel_style" validate:"omitempty,max=50"`
	Accommodation       string   `json:"accommodation" validate:"omitempty,max=50"`
	SpecialRequirements string   `json:"special_requirements" validate:"omitempty,max=500"`
}

type ItineraryListResponse struct {
	Itineraries []ItineraryResponse `json:"itineraries"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

// Generate запрашивает маршрут у модели и сохраняет его; при сбое сохраняется шаблон.
func (h *ItineraryHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GenerateItineraryRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	aiReq, err := h.buildRequest(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, errInvalidTrip) {
			return badRequest(c, err.Error())
		}
		return serverError(c)
	}

	started := time.Now()
	result, genErr := h.Service.GenerateItinerary(c.Request().Context(), aiReq)
	h.logAIRequest(c.Request().Context(), userID, aiReq, result, time.Since(started), genErr)

	content := result.Text
	source := models.ItinerarySourceAI
	if genErr != nil {
		content = ai.FallbackItinerary(aiReq)
		source = models.ItinerarySourceFallback
	}

	record, err := h.Itineraries.Create(c.Request().Context(), userID, repository.CreateItineraryInput{
		Destination: aiReq.Destination,
		StartDate:   aiReq.StartDate,
		EndDate:     aiReq.EndDate,
		Budget:      aiReq.Budget,
		GroupSize:   aiReq.GroupSize,
		Preferences: models.TripPreferences(aiReq.Preferences),
		Content:     content,
		Source:      source,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid itinerary")
		}
		return serverError(c)
	}
	logItinerarySource(source, record.ID, userID, genErr)

	h.publish(userID, notifications.EventItineraryCreated, notifications.ItineraryCreated{
		ItineraryID: record.ID,
		Destination: record.Destination,
		Source:      string(record.Source),
	})

	code := lookupCurrency(c.Request().Context(), h.Users, userID)
	return c.JSON(http.StatusCreated, newItineraryView(record, nil, code).detail())
}

// List возвращает маршруты пользователя постранично.
func (h *ItineraryHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit, offset, ok := parsePagination(c, 20, 100)
	if !ok {
		return badRequest(c, "invalid pagination")
	}

	items, err := h.Itineraries.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return serverError(c)
	}

	response := make([]ItineraryResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItineraryResponse(item.Itinerary, item.Spent))
	}

	return c.JSON(http.StatusOK, ItineraryListResponse{Itineraries: response, Limit: limit, Offset: offset})
}

// Get возвращает маршрут с разобранными днями, разбивкой бюджета, сезоном и расходами.
func (h *ItineraryHandler) Get(c echo.Context) error {
	view, ok, err := h.loadView(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, view.detail())
}

// Seasonal возвращает сезонные рекомендации для сохраненного маршрута.
func (h *ItineraryHandler) Seasonal(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid itinerary id")
	}

	record, err := h.Itineraries.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		return itineraryLookupError(c, err)
	}

	return c.JSON(http.StatusOK, seasonal.Recommend(record.Destination, record.StartDate))
}

// Delete удаляет маршрут вместе с расходами.
func (h *ItineraryHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid itinerary id")
	}

	if err := h.Itineraries.Delete(c.Request().Context(), userID, id); err != nil {
		return itineraryLookupError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PublicSeasonal отдает рекомендации по направлению и дате без авторизации.
func PublicSeasonal(c echo.Context) error {
	destination := strings.TrimSpace(c.QueryParam("destination"))
	if destination == "" {
		return badRequest(c, "destination is required")
	}

	date := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "invalid date")
		}
		date = parsed
	}

	return c.JSON(http.StatusOK, seasonal.Recommend(destination, date))
}

var errInvalidTrip = errors.New("invalid trip")

// maxTripDays ограничивает длину поездки в днях, как ее считает ItineraryRequest.Duration.
const maxTripDays = 60

func (h *ItineraryHandler) buildRequest(ctx context.Context, userID uuid.UUID, req GenerateItineraryRequest) (ai.ItineraryRequest, error) {
	start, end, err := parseTripDates(req.StartDate, req.EndDate)
	if err != nil {
		return ai.ItineraryRequest{}, err
	}

	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return ai.ItineraryRequest{}, fmt.Errorf("%w: destination is required", errInvalidTrip)
	}

	aiReq := ai.ItineraryRequest{
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      req.Budget,
		GroupSize:   req.GroupSize,
		Preferences: ai.TripPreferences{
			Activities:          cleanList(req.Preferences.Activities),
			TravelStyle:         strings.TrimSpace(req.Preferences.TravelStyle),
			Accommodation:       strings.TrimSpace(req.Preferences.Accommodation),
			SpecialRequirements: strings.TrimSpace(req.Preferences.SpecialRequirements),
		},
	}

	if h.Preferences == nil {
		return aiReq, nil
	}
	prefs, err := h.Preferences.Get(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return aiReq, err
	default:
		aiReq.Profile = toAIProfile(prefs)
	}
	return aiReq, nil
}

// parseTripDates проверяет формат дат, порядок и длину поездки.
func parseTripDates(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date", errInvalidTrip)
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date", errInvalidTrip)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date must not be before start_date", errInvalidTrip)
	}
	if end.Sub(start) > maxTripDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: trip must not exceed %d days", errInvalidTrip, maxTripDays)
	}
	return start, end, nil
}

func toAIProfile(prefs models.UserPreferences) *ai.Profile {
	return &ai.Profile{
		FavoriteActivities:      prefs.FavoriteActivities,
		TravelStyle:             deref(prefs.TravelStyle),
		AccommodationPreference: deref(prefs.AccommodationPreference),
		Languages:               prefs.Languages,
		SpecialRequirements:     deref(prefs.SpecialRequirements),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// loadView загружает маршрут и его расходы; при ok=false ответ уже отправлен.
func (h *ItineraryHandler) loadView(c echo.Context) (itineraryView, bool, error) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return itineraryView{}, false, unauthorized(c)
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return itineraryView{}, false, badRequest(c, "invalid itinerary id")
	}

	ctx := c.Request().Context()
	record, err := h.Itineraries.GetByID(ctx, userID, id)
	if err != nil {
		return itineraryView{}, false, itineraryLookupError(c, err)
	}

	expenses, err := h.Expenses.ListByItinerary(ctx, userID, id)
	if err != nil {
		return itineraryView{}, false, serverError(c)
	}

	return newItineraryView(record, expenses, lookupCurrency(ctx, h.Users, userID)), true, nil
}

// lookupCurrency возвращает валюту пользователя или валюту по умолчанию.
func lookupCurrency(ctx context.Context, users *repository.UserRepository, userID uuid.UUID) currency.Code {
	if users == nil {
		return currency.Default
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return currency.Default
	}
	return user.Currency
}

func (h *ItineraryHandler) logAIRequest(ctx context.Context, userID uuid.UUID, req ai.ItineraryRequest, result ai.ItineraryResult, latency time.Duration, err error) {
	if h.AIRepo == nil {
		return
	}

	payload, marshalErr := aiRequestPayload(req)
	if marshalErr != nil {
		slog.Warn("ai request payload encode failed", slog.String("user_id", userID.String()), slog.Any("error", marshalErr))
	}

	entry := repository.AIRequestLog{
		UserID:         userID,
		RequestType:    aiRequestGenerateItinerary,
		Provider:       h.Provider,
		Model:          h.Model,
		Prompt:         result.Prompt,
		RequestPayload: payload,
		RawResponse:    string(result.Raw),
		Success:        err == nil,
		Latency:        latency,
	}
	if err != nil {
		message := err.Error()
		entry.ErrorMessage = &message
	}

	if logErr := h.AIRepo.LogRequest(ctx, entry); logErr != nil {
		slog.Error("ai request log failed", slog.String("user_id", userID.String()), slog.Any("error", logErr))
	}
}

// aiRequestPayload сериализует параметры поездки для лога обращений к модели.
func aiRequestPayload(req ai.ItineraryRequest) ([]byte, error) {
	return json.Marshal(struct {
		Destination string             `json:"destination"`
		StartDate   string             `json:"start_date"`
		EndDate     string             `json:"end_date"`
		Budget      float64            `json:"budget"`
		GroupSize   int                `json:"group_size"`
		Preferences ai.TripPreferences `json:"preferences"`
	}{req.Destination, req.StartDate.Format(dateLayout), req.EndDate.Format(dateLayout), req.Budget, req.GroupSize, req.Preferences})
}

func (h *ItineraryHandler) publish(userID uuid.UUID, eventType notifications.EventType, data any) {
	if h.Notifier == nil {
		return
	}
	h.Notifier.Publish(userID, eventType, data)
}

func itineraryLookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "itinerary not found")
	}
	return serverError(c)
}

func logItinerarySource(source models.ItinerarySource, itineraryID, userID uuid.UUID, cause error) {
	attrs := []any{
		slog.String("itinerary_id", itineraryID.String()),
		slog.String("user_id", userID.String()),
	}
	if source == models.ItinerarySourceFallback {
		slog.Warn("ai itinerary fallback used", append(attrs, slog.Any("error", cause))...)
		return
	}
	slog.Info("ai itinerary generated", attrs...)
}
