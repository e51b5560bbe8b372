package handlers

import (
	"time"

	"github.com/google/uuid"

	"example.com/ai-travel-planner/internal/budget"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/itinerary"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/seasonal"
)

type ItineraryResponse struct {
	ID          uuid.UUID              `json:"id"`
	Destination string                 `json:"destination"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Budget      float64                `json:"budget"`
	GroupSize   int                    `json:"group_size"`
	Preferences models.TripPreferences `json:"preferences"`
	Source      models.ItinerarySource `json:"source"`
	Spent       float64                `json:"spent"`
	Remaining   float64                `json:"remaining"`
	CreatedAt   time.Time              `json:"created_at"`
}

type DayResponse struct {
	Day        int                  `json:"day"`
	Date       string               `json:"date"`
	Label      string               `json:"label"`
	Activities []itinerary.Activity `json:"activities"`
}

type BudgetResponse struct {
	budget.Summary
	Currency           currency.Code `json:"currency"`
	TotalFormatted     string        `json:"total_formatted"`
	SpentFormatted     string        `json:"spent_formatted"`
	RemainingFormatted string        `json:"remaining_formatted"`
}

type ItineraryDetailResponse struct {
	Itinerary   ItineraryResponse         `json:"itinerary"`
	Content     string                    `json:"content"`
	Days        []DayResponse             `json:"days"`
	PlannedCost float64                   `json:"planned_cost"`
	Breakdown   []itinerary.CategoryShare `json:"breakdown"`
	Seasonal    seasonal.Recommendation   `json:"seasonal"`
	Budget      BudgetResponse            `json:"budget"`
}

// itineraryView собирает все производные представления сохраненного маршрута.
type itineraryView struct {
	record   models.Itinerary
	days     []itinerary.DayPlan
	shares   []itinerary.CategoryShare
	season   seasonal.Recommendation
	summary  budget.Summary
	expenses []models.Expense
	currency currency.Code
}

func newItineraryView(record models.Itinerary, expenses []models.Expense, code currency.Code) itineraryView {
	return itineraryView{
		record:   record,
		days:     itinerary.Parse(record.Content, record.StartDate),
		shares:   itinerary.Shares(itinerary.ExtractBudgetBreakdown(record.Content), record.Budget),
		season:   seasonal.Recommend(record.Destination, record.StartDate),
		summary:  budget.Summarize(record.Budget, models.BudgetExpenses(expenses)),
		expenses: expenses,
		currency: code,
	}
}

func (v itineraryView) detail() ItineraryDetailResponse {
	days := make([]DayResponse, 0, len(v.days))
	for _, day := range v.days {
		days = append(days, DayResponse{
			Day:        day.Day,
			Date:       day.Date.Format(dateLayout),
			Label:      day.Label(),
			Activities: day.Activities,
		})
	}

	return ItineraryDetailResponse{
		Itinerary:   toItineraryResponse(v.record, v.summary.Spent),
		Content:     v.record.Content,
		Days:        days,
		PlannedCost: itinerary.PlannedCost(v.days),
		Breakdown:   v.shares,
		Seasonal:    v.season,
		Budget:      toBudgetResponse(v.summary, v.currency),
	}
}

func toItineraryResponse(record models.Itinerary, spent float64) ItineraryResponse {
	return ItineraryResponse{
		ID:          record.ID,
		Destination: record.Destination,
		StartDate:   record.StartDate.Format(dateLayout),
		EndDate:     record.EndDate.Format(dateLayout),
		Budget:      record.Budget,
		GroupSize:   record.GroupSize,
		Preferences: record.Preferences,
		Source:      record.Source,
		Spent:       spent,
		Remaining:   record.Budget - spent,
		CreatedAt:   record.CreatedAt,
	}
}

func toBudgetResponse(summary budget.Summary, code currency.Code) BudgetResponse {
	return BudgetResponse{
		Summary:            summary,
		Currency:           code,
		TotalFormatted:     currency.Format(summary.Total, code),
		SpentFormatted:     currency.Format(summary.Spent, code),
		RemainingFormatted: currency.Format(summary.Remaining, code),
	}
}
