package itinerary

import (
	"reflect"
	"testing"
)

// TestExtractBudgetBreakdownBullets проверяет разбор секции в формате списка.
func TestExtractBudgetBreakdownBullets(t *testing.T) {
	text := `Day 1
9:00 AM Tour

Budget Breakdown:
   - Accommodation: $1,200.50
   - Activities: $300
   - Food: $450
   - Transportation: $150.00
   - Miscellaneous: $99
   - Total: $2,199.50

Safety & Practical Tips:
- Food: $9999`

	got := ExtractBudgetBreakdown(text)
	want := []CategoryAmount{
		{Category: Accommodation, Amount: 1200.50},
		{Category: Activities, Amount: 300},
		{Category: Food, Amount: 450},
		{Category: Transportation, Amount: 150},
		{Category: Miscellaneous, Amount: 99},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected breakdown:\n got %+v\nwant %+v", got, want)
	}
}

// TestExtractBudgetBreakdownSkipsZero проверяет исключение нулевых сумм.
func TestExtractBudgetBreakdownSkipsZero(t *testing.T) {
	got := ExtractBudgetBreakdown("Budget Breakdown:\nAccommodation: $500\nFood: $0")
	want := []CategoryAmount{{Category: Accommodation, Amount: 500}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

// TestExtractBudgetBreakdownInline проверяет секцию в одну строку.
func TestExtractBudgetBreakdownInline(t *testing.T) {
	got := ExtractBudgetBreakdown("budget breakdown: Accommodation: $500, Food: $0, Transportation: $80")
	want := []CategoryAmount{
		{Category: Accommodation, Amount: 500},
		{Category: Transportation, Amount: 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

// TestExtractBudgetBreakdownStopsAtHeading проверяет границу секции.
func TestExtractBudgetBreakdownStopsAtHeading(t *testing.T) {
	text := "Budget Breakdown:\n- Accommodation: $500\nNotes on spending\n- Food: $200"
	got := ExtractBudgetBreakdown(text)
	want := []CategoryAmount{{Category: Accommodation, Amount: 500}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

// TestExtractBudgetBreakdownMissing проверяет пустой результат без секции.
func TestExtractBudgetBreakdownMissing(t *testing.T) {
	got := ExtractBudgetBreakdown("Accommodation: $500\nFood: $200")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

// TestShares проверяет доли категорий и нулевой бюджет.
func TestShares(t *testing.T) {
	items := []CategoryAmount{{Category: Food, Amount: 250}}

	shares := Shares(items, 1000)
	if len(shares) != 1 || shares[0].Percent != 25 {
		t.Fatalf("unexpected shares: %+v", shares)
	}

	shares = Shares(items, 0)
	if shares[0].Percent != 0 {
		t.Fatalf("expected zero percent for zero budget, got %v", shares[0].Percent)
	}
}

// TestExtractBudgetBreakdownIdempotent проверяет повторяемость результата.
func TestExtractBudgetBreakdownIdempotent(t *testing.T) {
	text := "Budget Breakdown:\n- Food: $10\n- Activities: $20"
	if !reflect.DeepEqual(ExtractBudgetBreakdown(text), ExtractBudgetBreakdown(text)) {
		t.Fatal("expected identical results")
	}
}
