package handlers

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/repository"
	"example.com/ai-travel-planner/internal/seasonal"
)

const sampleContent = `Day 1: Arrival
9:00 AM - Check in at the hotel $120
2:00 PM - Walk along the Seine
7:00 PM - Dinner at a bistro $45.50

Day 2: Museums
Morning - Louvre tour $22

Budget Breakdown:
- Accommodation: $1,200
- Food: $400
- Activities: $300
`

func sampleView(code currency.Code) itineraryView {
	record := models.Itinerary{
		ID:          uuid.MustParse("6f1f7c2e-2d43-4a1e-9a59-0c0f9b1a2b3c"),
		Destination: "Paris, France",
		StartDate:   time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.July, 12, 0, 0, 0, 0, time.UTC),
		Budget:      2000,
		GroupSize:   2,
		Content:     sampleContent,
		Source:      models.ItinerarySourceAI,
	}
	expenses := []models.Expense{
		{ID: uuid.New(), Category: budget.Food, Amount: 150, Description: "Bistro", SpentOn: record.StartDate},
		{ID: uuid.New(), Category: budget.Accommodation, Amount: 350, Description: "Hotel", SpentOn: record.StartDate},
	}
	return newItineraryView(record, expenses, code)
}

// TestItineraryViewDetail проверяет сборку детального ответа по маршруту.
func TestItineraryViewDetail(t *testing.T) {
	detail := sampleView(currency.USD).detail()

	if len(detail.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(detail.Days))
	}
	if detail.Days[0].Date != "2024-07-10" || detail.Days[1].Label != "Thursday, Jul 11" {
		t.Fatalf("unexpected day dates: %+v", detail.Days)
	}
	if len(detail.Days[0].Activities) != 3 {
		t.Fatalf("expected 3 activities on day 1, got %d", len(detail.Days[0].Activities))
	}
	if detail.PlannedCost != 187.5 {
		t.Fatalf("expected planned cost 187.5, got %v", detail.PlannedCost)
	}
	if len(detail.Breakdown) != 3 || detail.Breakdown[0].Percent != 60 {
		t.Fatalf("unexpected breakdown: %+v", detail.Breakdown)
	}
	if detail.Seasonal.Season != seasonal.Summer || detail.Seasonal.Region != seasonal.Europe {
		t.Fatalf("unexpected season: %s/%s", detail.Seasonal.Season, detail.Seasonal.Region)
	}
	if detail.Budget.Spent != 500 || detail.Budget.Status != budget.StatusOnTrack {
		t.Fatalf("unexpected budget: %+v", detail.Budget.Summary)
	}
	if detail.Budget.RemainingFormatted != "$1,500.00" {
		t.Fatalf("unexpected formatted remaining: %s", detail.Budget.RemainingFormatted)
	}
	if detail.Itinerary.Remaining != 1500 {
		t.Fatalf("expected remaining 1500, got %v", detail.Itinerary.Remaining)
	}
}

// TestWriteTimelineCSV проверяет CSV расписания с форматированием сумм.
func TestWriteTimelineCSV(t *testing.T) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeTimelineCSV(writer, sampleView(currency.INR)); err != nil {
		t.Fatalf("write: %v", err)
	}
	writer.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header and 4 rows, got %d", len(rows))
	}
	if rows[1][3] != "9:00 AM" || rows[1][6] != "₹120.00" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[3][4] != "evening" {
		t.Fatalf("expected evening period, got %v", rows[3])
	}
	if rows[2][6] != "" {
		t.Fatalf("expected empty cost, got %q", rows[2][6])
	}
}

// TestWriteBudgetCSV проверяет плановые и фактические строки бюджета.
func TestWriteBudgetCSV(t *testing.T) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writeBudgetCSV(writer, sampleView(currency.USD)); err != nil {
		t.Fatalf("write: %v", err)
	}
	writer.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := [][]string{
		{"source", "category", "amount", "percent"},
		{"planned", "Accommodation", "$1,200.00", "60.0"},
		{"planned", "Activities", "$300.00", "15.0"},
		{"planned", "Food", "$400.00", "20.0"},
		{"spent", "accommodation", "$350.00", "17.5"},
		{"spent", "food", "$150.00", "7.5"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
}

// TestWriteItineraryPDF проверяет, что PDF собирается и с рупиями.
func TestWriteItineraryPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := writeItineraryPDF(&buf, sampleView(currency.INR)); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

const markdownContent = "**Day 1: Arrival**\n- 9:00 AM Tram 28 ride to Alfama"

func markdownView() itineraryView {
	record := models.Itinerary{
		ID:          uuid.MustParse("0b7e4d7a-5c1f-4f0e-8d2a-3e6b9c1d2f4a"),
		Destination: "Lisbon, Portugal",
		StartDate:   time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC),
		Budget:      900,
		GroupSize:   1,
		Content:     markdownContent,
		Source:      models.ItinerarySourceAI,
	}
	return newItineraryView(record, nil, currency.USD)
}

// pdfText распаковывает потоки страниц PDF и склеивает их содержимое.
func pdfText(t *testing.T, data []byte) string {
	t.Helper()

	var out strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream\n"))
		if start < 0 {
			break
		}
		rest = rest[start+len("stream\n"):]
		end := bytes.Index(rest, []byte("\nendstream"))
		if end < 0 {
			t.Fatal("unterminated pdf stream")
		}
		chunk := rest[:end]
		rest = rest[end+len("\nendstream"):]

		reader, err := zlib.NewReader(bytes.NewReader(chunk))
		if err != nil {
			out.Write(chunk)
			continue
		}
		plain, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("inflate: %v", err)
		}
		out.Write(plain)
	}
	return out.String()
}

// TestExportsKeepUnparsedContent проверяет, что без распознанных дней экспорт содержит исходный текст.
func TestExportsKeepUnparsedContent(t *testing.T) {
	view := markdownView()
	if len(view.days) != 0 {
		t.Fatalf("expected no parsed days, got %d", len(view.days))
	}

	var pdfBuf bytes.Buffer
	if err := writeItineraryPDF(&pdfBuf, view); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	pages := pdfText(t, pdfBuf.Bytes())
	if !strings.Contains(pages, "Tram 28 ride to Alfama") {
		t.Fatal("expected raw itinerary text in pdf")
	}
	if !strings.Contains(pages, "**Day 1: Arrival**") {
		t.Fatal("expected raw day heading in pdf")
	}

	var csvBuf bytes.Buffer
	writer := csv.NewWriter(&csvBuf)
	if err := writeTimelineCSV(writer, view); err != nil {
		t.Fatalf("csv: %v", err)
	}
	writer.Flush()

	rows, err := csv.NewReader(&csvBuf).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and content row, got %d", len(rows))
	}
	if rows[1][2] != "content" || rows[1][5] != markdownContent {
		t.Fatalf("unexpected content row: %v", rows[1])
	}
}

// TestAIRequestPayload проверяет JSON параметров поездки для лога обращений.
func TestAIRequestPayload(t *testing.T) {
	payload, err := aiRequestPayload(ai.ItineraryRequest{
		Destination: "Kyoto, Japan",
		StartDate:   time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, time.April, 4, 0, 0, 0, 0, time.UTC),
		Budget:      2500,
		GroupSize:   2,
		Preferences: ai.TripPreferences{TravelStyle: "relaxed"},
	})
	if err != nil {
		t.Fatalf("payload: %v", err)
	}

	var decoded struct {
		Destination string  `json:"destination"`
		StartDate   string  `json:"start_date"`
		EndDate     string  `json:"end_date"`
		Budget      float64 `json:"budget"`
		GroupSize   int     `json:"group_size"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Destination != "Kyoto, Japan" || decoded.StartDate != "2024-04-01" || decoded.EndDate != "2024-04-04" {
		t.Fatalf("unexpected payload: %s", payload)
	}
	if decoded.Budget != 2500 || decoded.GroupSize != 2 {
		t.Fatalf("unexpected payload numbers: %s", payload)
	}
}

// TestParseTripDates проверяет разбор дат, их порядок и предельную длину поездки.
func TestParseTripDates(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid", "2024-07-10", "2024-07-12", false},
		{"same day", "2024-07-10", "2024-07-10", false},
		{"reversed", "2024-07-12", "2024-07-10", true},
		{"bad start", "10/07/2024", "2024-07-12", true},
		{"bad end", "2024-07-10", "", true},
		{"longest trip", "2024-07-01", "2024-08-30", false},
		{"too long", "2024-07-01", "2024-08-31", true},
		{"centuries", "2024-07-01", "2316-01-01", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseTripDates(tc.start, tc.end)
			if tc.wantErr {
				if !errors.Is(err, errInvalidTrip) {
					t.Fatalf("expected errInvalidTrip, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestParsePagination проверяет значения по умолчанию, ограничение и ошибки.
func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
		wantOK     bool
	}{
		{"", 20, 0, true},
		{"limit=5&offset=10", 5, 10, true},
		{"limit=1000", 100, 0, true},
		{"limit=0", 0, 0, false},
		{"offset=-1", 0, 0, false},
		{"limit=abc", 0, 0, false},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		limit, offset, ok := parsePagination(c, 20, 100)
		if ok != tc.wantOK || limit != tc.wantLimit || offset != tc.wantOffset {
			t.Fatalf("%q: expected (%d,%d,%v), got (%d,%d,%v)", tc.query, tc.wantLimit, tc.wantOffset, tc.wantOK, limit, offset, ok)
		}
	}
}

// TestCleanList проверяет очистку списков предпочтений.
func TestCleanList(t *testing.T) {
	got := cleanList([]string{" Hiking ", "", "hiking", "Museums"})
	if strings.Join(got, ",") != "Hiking,Museums" {
		t.Fatalf("unexpected list: %v", got)
	}
	if got := cleanList(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

// TestCategorySpending проверяет доли категорий в общей сумме.
func TestCategorySpending(t *testing.T) {
	response := categorySpending(nil, []repository.CategoryTotal{
		{Category: budget.Food, Amount: 300, Count: 3},
		{Category: budget.Shopping, Amount: 100, Count: 1},
	})
	if response.Total != 400 {
		t.Fatalf("expected total 400, got %v", response.Total)
	}
	if response.Categories[0].Percent != 75 || response.Categories[1].Percent != 25 {
		t.Fatalf("unexpected percents: %+v", response.Categories)
	}

	empty := categorySpending(nil, nil)
	if empty.Categories == nil || len(empty.Categories) != 0 {
		t.Fatalf("expected empty categories")
	}
}

// TestPublicSeasonal проверяет публичный сезонный эндпоинт.
func TestPublicSeasonal(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/seasonal?destination=Sydney,+Australia&date=2024-07-15", nil)
	rec := httptest.NewRecorder()
	if err := PublicSeasonal(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got seasonal.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Season != seasonal.Winter || got.Hemisphere != seasonal.Southern {
		t.Fatalf("expected southern winter, got %s/%s", got.Season, got.Hemisphere)
	}

	for _, target := range []string{"/seasonal", "/seasonal?destination=Rome&date=tomorrow"} {
		rec := httptest.NewRecorder()
		if err := PublicSeasonal(e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

// TestHandlersRequireUser проверяет ответ 401 без пользователя в контексте.
func TestHandlersRequireUser(t *testing.T) {
	e := echo.New()
	itineraries := &ItineraryHandler{}
	expenses := &ExpenseHandler{}

	for name, handler := range map[string]echo.HandlerFunc{
		"list":     itineraries.List,
		"generate": itineraries.Generate,
		"budget":   expenses.Budget,
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := handler(c); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

// TestHealth проверяет ответ с проверкой базы и без нее.
func TestHealth(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name   string
		ping   func(context.Context) error
		status int
		body   string
	}{
		{name: "no database", ping: nil, status: http.StatusOK, body: `"status":"ok"`},
		{name: "database up", ping: func(context.Context) error { return nil }, status: http.StatusOK, body: `"database":"up"`},
		{name: "database down", ping: func(context.Context) error { return errors.New("refused") }, status: http.StatusServiceUnavailable, body: `"status":"degraded"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
			if err := Health(tc.ping)(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("expected %s in %s", tc.body, rec.Body.String())
			}
		})
	}
}
