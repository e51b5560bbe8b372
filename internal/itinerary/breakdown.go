package itinerary

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type BreakdownCategory string

const (
	Accommodation  BreakdownCategory = "Accommodation"
	Activities     BreakdownCategory = "Activities"
	Food           BreakdownCategory = "Food"
	Transportation BreakdownCategory = "Transportation"
	Miscellaneous  BreakdownCategory = "Miscellaneous"
)

// BreakdownCategories перечисляет метки в порядке вывода.
var BreakdownCategories = []BreakdownCategory{Accommodation, Activities, Food, Transportation, Miscellaneous}

type CategoryAmount struct {
	Category BreakdownCategory `json:"category"`
	Amount   float64           `json:"amount"`
}

type CategoryShare struct {
	Category BreakdownCategory `json:"category"`
	Amount   float64           `json:"amount"`
	Percent  float64           `json:"percent"`
}

var (
	sectionPattern   = regexp.MustCompile(`(?i)budget breakdown:`)
	categoryPatterns = buildCategoryPatterns()
)

func buildCategoryPatterns() map[BreakdownCategory]*regexp.Regexp {
	patterns := make(map[BreakdownCategory]*regexp.Regexp, len(BreakdownCategories))
	for _, category := range BreakdownCategories {
		patterns[category] = regexp.MustCompile(`(?i)` + string(category) + `:\s*\$(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	}
	return patterns
}

// ExtractBudgetBreakdown извлекает суммы по категориям из секции "Budget Breakdown:".
// Категории без суммы или с нулевой суммой не попадают в результат.
func ExtractBudgetBreakdown(text string) []CategoryAmount {
	items := []CategoryAmount{}

	section, ok := breakdownSection(text)
	if !ok {
		return items
	}

	for _, category := range BreakdownCategories {
		match := categoryPatterns[category].FindStringSubmatch(section)
		if match == nil {
			continue
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil || amount <= 0 {
			continue
		}

		items = append(items, CategoryAmount{Category: category, Amount: amount})
	}

	return items
}

// breakdownSection возвращает текст от метки до пустой строки
// или до строки с заглавной буквы, которая не является строкой категории.
func breakdownSection(text string) (string, bool) {
	loc := sectionPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	lines := strings.Split(text[loc[0]:], "\n")
	section := []string{lines[0]}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		if startsUpper(line) && !isCategoryLine(line) {
			break
		}
		section = append(section, line)
	}

	return strings.Join(section, "\n"), true
}

func startsUpper(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(r)
}

func isCategoryLine(line string) bool {
	lower := strings.ToLower(line)
	for _, category := range BreakdownCategories {
		if strings.HasPrefix(lower, strings.ToLower(string(category))) {
			return true
		}
	}
	return false
}

// Shares считает долю каждой категории от бюджета поездки в процентах.
func Shares(items []CategoryAmount, budget float64) []CategoryShare {
	shares := make([]CategoryShare, 0, len(items))
	for _, item := range items {
		share := CategoryShare{Category: item.Category, Amount: item.Amount}
		if budget > 0 {
			share.Percent = item.Amount / budget * 100
		}
		shares = append(shares, share)
	}
	return shares
}
