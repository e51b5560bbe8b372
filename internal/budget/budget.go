package budget

import (
	"strings"
	"time"
)

type Category string

const (
	Accommodation  Category = "accommodation"
	Food           Category = "food"
	Transportation Category = "transportation"
	Activities     Category = "activities"
	Shopping       Category = "shopping"
	Miscellaneous  Category = "miscellaneous"
)

// Categories перечисляет допустимые категории расходов.
var Categories = []Category{Accommodation, Food, Transportation, Activities, Shopping, Miscellaneous}

// ParseCategory приводит строку к категории расхода.
func ParseCategory(value string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(value)))
	return candidate, candidate.Valid()
}

func (c Category) Valid() bool {
	for _, category := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusOnTrack    Status = "on track"
	StatusWarning    Status = "warning"
	StatusOverBudget Status = "over budget"
)

const (
	warningPercent = 80
	overPercent    = 100
)

type Expense struct {
	Category    Category
	Amount      float64
	Description string
	Date        time.Time
}

type Summary struct {
	Total       float64              `json:"total"`
	Spent       float64              `json:"spent"`
	Remaining   float64              `json:"remaining"`
	PercentUsed float64              `json:"percent_used"`
	ByCategory  map[Category]float64 `json:"by_category"`
	Status      Status               `json:"status"`
}

// Summarize считает потраченное, остаток, процент и суммы по категориям.
func Summarize(total float64, expenses []Expense) Summary {
	summary := Summary{
		Total:      total,
		ByCategory: make(map[Category]float64),
	}

	for _, expense := range expenses {
		summary.Spent += expense.Amount
		summary.ByCategory[expense.Category] += expense.Amount
	}

	summary.Remaining = total - summary.Spent
	if total > 0 {
		summary.PercentUsed = summary.Spent / total * 100
	}
	summary.Status = StatusFor(summary.PercentUsed)

	return summary
}

// StatusFor классифицирует процент использования бюджета.
func StatusFor(percent float64) Status {
	switch {
	case percent >= overPercent:
		return StatusOverBudget
	case percent >= warningPercent:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}
