package models

import (
	"time"

	"github.com/google/uuid"

	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/currency"
)

type ItinerarySource string

const (
	ItinerarySourceAI       ItinerarySource = "ai"
	ItinerarySourceFallback ItinerarySource = "fallback"
)

type User struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Name         *string       `json:"name,omitempty"`
	Currency     currency.Code `json:"currency"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TripPreferences хранится в itineraries.preferences как JSONB.
type TripPreferences struct {
	Activities          []string `json:"activities,omitempty"`
	TravelStyle         string   `json:"travel_style,omitempty"`
	Accommodation       string   `json:"accommodation,omitempty"`
	SpecialRequirements string   `json:"special_requirements,omitempty"`
}

// Itinerary — сохраненная поездка с сырым текстом маршрута.
type Itinerary struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Destination string          `json:"destination"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Budget      float64         `json:"budget"`
	GroupSize   int             `json:"group_size"`
	Preferences TripPreferences `json:"preferences"`
	Content     string          `json:"content"`
	Source      ItinerarySource `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	ItineraryID uuid.UUID       `json:"itinerary_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Category    budget.Category `json:"category"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	SpentOn     time.Time       `json:"spent_on"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BudgetExpense приводит запись к входу агрегатора бюджета.
func (e Expense) BudgetExpense() budget.Expense {
	return budget.Expense{
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.SpentOn,
	}
}

// BudgetExpenses конвертирует список расходов для агрегатора.
func BudgetExpenses(expenses []Expense) []budget.Expense {
	out := make([]budget.Expense, 0, len(expenses))
	for _, expense := range expenses {
		out = append(out, expense.BudgetExpense())
	}
	return out
}

type UserPreferences struct {
	UserID                  uuid.UUID `json:"user_id"`
	FavoriteActivities      []string  `json:"favorite_activities"`
	BudgetRange             *string   `json:"budget_range,omitempty"`
	TravelStyle             *string   `json:"travel_style,omitempty"`
	AccommodationPreference *string   `json:"accommodation_preference,omitempty"`
	PreferredDestinations   []string  `json:"preferred_destinations"`
	GroupSize               *int      `json:"group_size,omitempty"`
	Languages               []string  `json:"languages"`
	SpecialRequirements     *string   `json:"special_requirements,omitempty"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
