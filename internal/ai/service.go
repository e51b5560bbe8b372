package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"example.com/ai-travel-planner/internal/seasonal"
)

const (
	dateLayout   = "2006-01-02"
	systemPrompt = "You are an expert travel planner. Respond in plain text. " +
		"Start each day with a line like \"Day 1: <title>\" and start every activity line with a time such as \"9:00 AM\", \"Morning\", \"Afternoon\" or \"Evening\"."
)

// ErrEmptyResponse возвращается, когда модель не прислала текст.
var ErrEmptyResponse = errors.New("ai response is empty")

type Service struct {
	client Client
}

// NewService создает сервис генерации маршрутов.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// GenerateItinerary запрашивает у модели текстовый маршрут поездки.
func (s *Service) GenerateItinerary(ctx context.Context, req ItineraryRequest) (ItineraryResult, error) {
	result := ItineraryResult{Prompt: BuildItineraryPrompt(req)}

	messages := []Message{
		{Role: roleSystem, Content: systemPrompt},
		{Role: roleUser, Content: result.Prompt},
	}

	text, raw, err := s.client.Chat(ctx, messages)
	result.Raw = raw
	if err != nil {
		return result, err
	}

	result.Text = strings.TrimSpace(text)
	if result.Text == "" {
		return result, ErrEmptyResponse
	}

	return result, nil
}

// BuildItineraryPrompt собирает промпт с деталями поездки, предпочтениями и сезонным контекстом.
func BuildItineraryPrompt(req ItineraryRequest) string {
	duration := req.Duration()
	start := req.StartDate.Format(dateLayout)
	end := req.EndDate.Format(dateLayout)
	season := seasonal.Recommend(req.Destination, req.StartDate)

	profile := req.Profile
	if profile == nil {
		profile = &Profile{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for %s.\n\n", duration, req.Destination)

	b.WriteString("Trip Details:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "- Dates: %s to %s (%d days)\n", start, end, duration)
	fmt.Fprintf(&b, "- Budget: $%s USD total\n", formatAmount(req.Budget))
	fmt.Fprintf(&b, "- Group Size: %d people\n", req.GroupSize)
	fmt.Fprintf(&b, "- Budget per person per day: $%s\n\n", formatAmount(req.PerPersonPerDay()))

	b.WriteString("User Preferences:\n")
	fmt.Fprintf(&b, "- Favorite Activities: %s\n", firstList(req.Preferences.Activities, profile.FavoriteActivities, "General sightseeing"))
	fmt.Fprintf(&b, "- Travel Style: %s\n", firstNonEmpty(req.Preferences.TravelStyle, profile.TravelStyle, "Balanced"))
	fmt.Fprintf(&b, "- Accommodation Type: %s\n", firstNonEmpty(req.Preferences.Accommodation, profile.AccommodationPreference, "Mid-range hotels"))
	fmt.Fprintf(&b, "- Languages: %s\n", firstList(nil, profile.Languages, "English"))
	fmt.Fprintf(&b, "- Special Requirements: %s\n\n", firstNonEmpty(req.Preferences.SpecialRequirements, profile.SpecialRequirements, "None"))

	fmt.Fprintf(&b, "IMPORTANT SEASONAL CONTEXT for %s in %s (expected season: %s):\n", req.Destination, req.StartDate.Month(), season.Season)
	b.WriteString(`- Analyze the specific weather patterns, temperature ranges, and precipitation for this destination and time of year
- Consider local seasonal events, festivals, and cultural celebrations happening during this period
- Account for tourist season patterns (peak/off-peak) and how they affect pricing and crowds
- Identify seasonal activities that are particularly good or should be avoided during this time
- Consider daylight hours and how they affect daily scheduling
- Factor in any seasonal closures of attractions or changes in operating hours
- Include region-specific seasonal considerations (monsoons, hurricane seasons, winter conditions, etc.)

Please create a comprehensive itinerary that includes:

1. Daily Schedule (Day 1, Day 2, etc.):
   - Morning activities with specific times
   - Afternoon activities with specific times
   - Evening activities with specific times
   - Estimated costs for each activity

2. Accommodation Recommendations:
   - Specific hotel/lodging suggestions within budget
   - Nightly rates and total accommodation cost

3. Transportation:
   - How to get around the city/region
   - Estimated transportation costs

4. Food & Dining:
   - Restaurant recommendations for each meal
   - Local specialties to try
   - Estimated food costs per day

`)
	b.WriteString("5. Budget Breakdown:\n")
	b.WriteString("   - Accommodation: $X\n   - Activities: $X\n   - Food: $X\n   - Transportation: $X\n   - Miscellaneous: $X\n")
	fmt.Fprintf(&b, "   - Total: $%s\n\n", formatAmount(req.Budget))

	b.WriteString("6. Detailed Seasonal Considerations:\n")
	fmt.Fprintf(&b, "   - Specific weather expectations for %s to %s\n", start, end)
	b.WriteString(`   - Detailed packing recommendations based on local climate
   - Seasonal activities and events happening during your visit
   - Best times of day for outdoor activities considering weather
   - Any seasonal closures or limited hours for attractions
   - Local seasonal specialties (food, festivals, natural phenomena)

7. Safety & Practical Tips:
   - Important local customs
   - Safety considerations
   - Emergency contacts
   - Currency and payment methods
   - Seasonal health considerations (sun protection, hydration, etc.)

Format the response as a well-structured itinerary that's easy to read and follow. Include specific venue names, addresses when possible, and realistic time estimates. Pay special attention to seasonal factors that could significantly impact the travel experience.`)

	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstList(primary, secondary []string, fallback string) string {
	if len(primary) > 0 {
		return strings.Join(primary, ", ")
	}
	if len(secondary) > 0 {
		return strings.Join(secondary, ", ")
	}
	return fallback
}

// formatAmount печатает сумму без дробной части, если она целая.
func formatAmount(value float64) string {
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%.2f", value)
}
