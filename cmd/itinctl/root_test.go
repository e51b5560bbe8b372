package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"example.com/ai-travel-planner/internal/seasonal"
)

const sampleItinerary = `Day 1: Arrival
9:00 AM - Check in at the hotel $120
7:00 PM - Dinner at a bistro $45.50

Day 2: Museums
Morning - Louvre tour $22

Budget Breakdown:
- Accommodation: $1,200
- Food: $400
- Activities: $300
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// TestParseCommand проверяет разбор маршрута из stdin.
func TestParseCommand(t *testing.T) {
	out, err := execute(t, sampleItinerary, "parse", "-", "--start", "2024-06-01")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var result struct {
		Days []struct {
			Day        int `json:"day"`
			Activities []struct {
				Period string `json:"period"`
			} `json:"activities"`
		} `json:"days"`
		PlannedCost float64 `json:"planned_cost"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}

	if len(result.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(result.Days))
	}
	if len(result.Days[0].Activities) != 2 || result.Days[0].Activities[1].Period != "evening" {
		t.Fatalf("unexpected first day: %+v", result.Days[0])
	}
	if result.PlannedCost != 187.5 {
		t.Fatalf("expected planned cost 187.5, got %v", result.PlannedCost)
	}
}

// TestBreakdownCommand проверяет чтение файла и расчет долей при заданном бюджете.
func TestBreakdownCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.txt")
	if err := os.WriteFile(path, []byte(sampleItinerary), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	out, err := execute(t, "", "breakdown", path, "--budget", "2000")
	if err != nil {
		t.Fatalf("breakdown failed: %v", err)
	}

	var result breakdownOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(result.Items) != 3 || len(result.Shares) != 3 {
		t.Fatalf("expected 3 items and shares, got %d and %d", len(result.Items), len(result.Shares))
	}
	if result.Shares[0].Amount != 1200 || result.Shares[0].Percent != 60 {
		t.Fatalf("unexpected accommodation share: %+v", result.Shares[0])
	}
}

// TestBreakdownWithoutBudget проверяет, что без бюджета доли не выводятся.
func TestBreakdownWithoutBudget(t *testing.T) {
	out, err := execute(t, sampleItinerary, "breakdown", "-")
	if err != nil {
		t.Fatalf("breakdown failed: %v", err)
	}
	if strings.Contains(out, `"shares"`) {
		t.Fatalf("expected no shares, got %s", out)
	}
}

// TestSeasonCommand проверяет сезон для южного полушария.
func TestSeasonCommand(t *testing.T) {
	out, err := execute(t, "", "season", "Sydney, Australia", "--date", "2025-07-15")
	if err != nil {
		t.Fatalf("season failed: %v", err)
	}

	var result seasonal.Recommendation
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if result.Season != seasonal.Winter || result.Hemisphere != seasonal.Southern {
		t.Fatalf("unexpected recommendation: %s/%s", result.Season, result.Hemisphere)
	}
}

// TestCommandErrors проверяет ошибки аргументов до обращения к файлам и базе.
func TestCommandErrors(t *testing.T) {
	cases := [][]string{
		{"season", "Paris", "--date", "15.07.2025"},
		{"parse", "-", "--start", "bad"},
		{"breakdown", "-", "--budget", "-5"},
		{"parse", filepath.Join(t.TempDir(), "missing.txt")},
		{"migrate", "down", "--steps", "0"},
		{"season"},
	}

	for _, args := range cases {
		if _, err := execute(t, "", args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
