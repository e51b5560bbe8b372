package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"example.com/ai-travel-planner/internal/itinerary"
)

type stubClient struct {
	text     string
	err      error
	messages []Message
}

func (s *stubClient) Chat(_ context.Context, messages []Message) (string, []byte, error) {
	s.messages = messages
	return s.text, []byte(`{"ok":true}`), s.err
}

func tripRequest() ItineraryRequest {
	return ItineraryRequest{
		Destination: "Paris, France",
		StartDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC),
		Budget:      1200,
		GroupSize:   2,
	}
}

// TestItineraryRequestDuration проверяет длительность и бюджет на человека в день.
func TestItineraryRequestDuration(t *testing.T) {
	req := tripRequest()
	if got := req.Duration(); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := req.PerPersonPerDay(); got != 200 {
		t.Fatalf("expected 200 per person per day, got %v", got)
	}

	req.EndDate = req.StartDate
	if got := req.Duration(); got != 1 {
		t.Fatalf("expected minimum duration 1, got %d", got)
	}
}

// TestBuildItineraryPromptFallbacks проверяет подстановку значений по умолчанию.
func TestBuildItineraryPromptFallbacks(t *testing.T) {
	prompt := BuildItineraryPrompt(tripRequest())

	for _, want := range []string{
		"Create a detailed 3-day travel itinerary for Paris, France.",
		"- Budget per person per day: $200",
		"- Favorite Activities: General sightseeing",
		"- Travel Style: Balanced",
		"- Accommodation Type: Mid-range hotels",
		"- Languages: English",
		"- Special Requirements: None",
		"expected season: Summer",
		"5. Budget Breakdown:",
		"- Total: $1200",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestBuildItineraryPromptProfile проверяет приоритет формы над профилем.
func TestBuildItineraryPromptProfile(t *testing.T) {
	req := tripRequest()
	req.Preferences.TravelStyle = "Adventure"
	req.Profile = &Profile{
		FavoriteActivities: []string{"Museums", "Food tours"},
		TravelStyle:        "Luxury",
		Languages:          []string{"English", "French"},
	}

	prompt := BuildItineraryPrompt(req)
	for _, want := range []string{
		"- Favorite Activities: Museums, Food tours",
		"- Travel Style: Adventure",
		"- Languages: English, French",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestGenerateItinerary проверяет передачу сообщений и обрезку текста.
func TestGenerateItinerary(t *testing.T) {
	client := &stubClient{text: "  Day 1\n9:00 AM Tour  "}
	service := NewService(client)

	result, err := service.GenerateItinerary(context.Background(), tripRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "Day 1\n9:00 AM Tour" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if len(client.messages) != 2 || client.messages[0].Role != roleSystem {
		t.Fatalf("unexpected messages: %+v", client.messages)
	}
	if string(result.Raw) != `{"ok":true}` {
		t.Fatalf("unexpected raw response: %s", result.Raw)
	}
}

// TestGenerateItineraryErrors проверяет пустой ответ и ошибку клиента.
func TestGenerateItineraryErrors(t *testing.T) {
	service := NewService(&stubClient{text: "   "})
	if _, err := service.GenerateItinerary(context.Background(), tripRequest()); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	failure := errors.New("boom")
	result, err := NewService(&stubClient{err: failure}).GenerateItinerary(context.Background(), tripRequest())
	if !errors.Is(err, failure) {
		t.Fatalf("expected client error, got %v", err)
	}
	if result.Prompt == "" {
		t.Fatal("expected prompt to be kept for logging")
	}
}

// TestFallbackItineraryParses проверяет, что резервный маршрут разбирается парсером.
func TestFallbackItineraryParses(t *testing.T) {
	req := tripRequest()
	text := FallbackItinerary(req)

	days := itinerary.Parse(text, req.StartDate)
	if len(days) != req.Duration() {
		t.Fatalf("expected %d days, got %d", req.Duration(), len(days))
	}
	for _, day := range days {
		if len(day.Activities) != 5 {
			t.Fatalf("day %d: expected 5 activities, got %d", day.Day, len(day.Activities))
		}
	}

	breakdown := itinerary.ExtractBudgetBreakdown(text)
	if len(breakdown) != 5 {
		t.Fatalf("expected full breakdown, got %+v", breakdown)
	}
	var total float64
	for _, item := range breakdown {
		total += item.Amount
	}
	if total != req.Budget {
		t.Fatalf("expected breakdown to sum to %v, got %v", req.Budget, total)
	}
}
