package ai

import (
	"math"
	"time"
)

// TripPreferences — пожелания, указанные в форме конкретной поездки.
type TripPreferences struct {
	Activities          []string `json:"activities,omitempty"`
	TravelStyle         string   `json:"travel_style,omitempty"`
	Accommodation       string   `json:"accommodation,omitempty"`
	SpecialRequirements string   `json:"special_requirements,omitempty"`
}

// Profile — сохраненные предпочтения пользователя, используются как запасные значения.
type Profile struct {
	FavoriteActivities      []string
	TravelStyle             string
	AccommodationPreference string
	Languages               []string
	SpecialRequirements     string
}

type ItineraryRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	GroupSize   int
	Preferences TripPreferences
	Profile     *Profile
}

// Duration возвращает длительность поездки в днях, не меньше одного.
func (r ItineraryRequest) Duration() int {
	days := int(math.Ceil(r.EndDate.Sub(r.StartDate).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// PerPersonPerDay — бюджет на человека в день, округленный до целого.
func (r ItineraryRequest) PerPersonPerDay() float64 {
	groupSize := r.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}
	return math.Round(r.Budget / float64(groupSize) / float64(r.Duration()))
}

// ItineraryResult содержит текст маршрута, промпт и сырой ответ провайдера.
type ItineraryResult struct {
	Text   string
	Prompt string
	Raw    []byte
}
