package ai

import (
	"fmt"
	"math"
	"strings"

	"example.com/ai-travel-planner/internal/seasonal"
)

// Доли бюджета в резервном маршруте, в сумме 1.
var fallbackShares = []struct {
	label string
	share float64
}{
	{"Accommodation", 0.40},
	{"Activities", 0.20},
	{"Food", 0.25},
	{"Transportation", 0.10},
	{"Miscellaneous", 0.05},
}

// FallbackItinerary строит шаблонный маршрут, когда модель недоступна.
// Текст совместим с разбором дней и секции "Budget Breakdown:".
func FallbackItinerary(req ItineraryRequest) string {
	duration := req.Duration()
	daily := req.Budget / float64(duration)
	food := daily * 0.25
	activities := daily * 0.20
	season := seasonal.Recommend(req.Destination, req.StartDate)

	var b strings.Builder
	fmt.Fprintf(&b, "%d-day itinerary for %s\n\n", duration, req.Destination)

	for day := 1; day <= duration; day++ {
		date := req.StartDate.AddDate(0, 0, day-1)
		fmt.Fprintf(&b, "Day %d: %s (%s)\n", day, req.Destination, date.Format(dateLayout))
		fmt.Fprintf(&b, "8:30 AM Breakfast near your accommodation $%.0f\n", math.Round(food*0.2))
		fmt.Fprintf(&b, "10:00 AM %s\n", pick(season.RecommendedActivities, day-1, "Explore the city center"))
		fmt.Fprintf(&b, "12:30 PM Lunch at a local restaurant $%.0f\n", math.Round(food*0.3))
		fmt.Fprintf(&b, "3:00 PM %s $%.0f\n", pick(season.RecommendedActivities, day, "Visit a popular landmark"), math.Round(activities))
		fmt.Fprintf(&b, "7:00 PM Dinner featuring local specialties $%.0f\n\n", math.Round(food*0.5))
	}

	b.WriteString("Budget Breakdown:\n")
	for _, item := range fallbackShares {
		fmt.Fprintf(&b, "- %s: $%.2f\n", item.label, req.Budget*item.share)
	}
	fmt.Fprintf(&b, "- Total: $%.2f\n\n", req.Budget)

	fmt.Fprintf(&b, "Seasonal Considerations (%s):\n", season.Season)
	for _, tip := range season.Tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	for _, alert := range season.Alerts {
		fmt.Fprintf(&b, "- %s\n", alert)
	}

	return strings.TrimRight(b.String(), "\n")
}

func pick(values []string, index int, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[index%len(values)]
}
