package itinerary

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

type Activity struct {
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost,omitempty"`
	Period      Period   `json:"period"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       time.Time  `json:"date"`
	Activities []Activity `json:"activities"`
}

const labelLayout = "Monday, Jan 2"

// Label форматирует дату дня для отображения, например "Monday, Jun 1".
func (d DayPlan) Label() string {
	return d.Date.Format(labelLayout)
}

var (
	dayPattern  = regexp.MustCompile(`(?i)^day (\d+)`)
	timePattern = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2}(?:\s*[ap]m)?|\d{1,2}\s*[ap]m|morning|afternoon|evening)[\s\-:]+(.+)$`)
	costPattern = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`)
	hourPattern = regexp.MustCompile(`^\d{1,2}`)
)

// Parse разбирает текст маршрута на дни и активности.
// Строки вне дней и нераспознанные строки пропускаются.
func Parse(text string, start time.Time) []DayPlan {
	days := []DayPlan{}
	var current *DayPlan

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if match := dayPattern.FindStringSubmatch(line); match != nil {
			index, err := strconv.Atoi(match[1])
			if err == nil {
				if current != nil {
					days = append(days, *current)
				}
				current = &DayPlan{
					Day:        index,
					Date:       start.AddDate(0, 0, index-1),
					Activities: []Activity{},
				}
				continue
			}
		}

		if current == nil {
			continue
		}

		if match := timePattern.FindStringSubmatch(line); match != nil {
			current.Activities = append(current.Activities, newActivity(match[1], match[2]))
		}
	}

	if current != nil {
		days = append(days, *current)
	}

	return days
}

func newActivity(token, rest string) Activity {
	activity := Activity{
		Time:        token,
		Description: strings.TrimSpace(rest),
		Period:      PeriodOf(token),
	}

	if match := costPattern.FindStringSubmatch(rest); match != nil {
		if cost, err := strconv.ParseFloat(match[1], 64); err == nil {
			activity.Cost = &cost
		}
		activity.Description = strings.TrimSpace(costPattern.ReplaceAllString(rest, ""))
	}

	return activity
}

// PeriodOf относит токен времени к утру, дню или вечеру.
// "afternoon" и PM до 18:00 проверяются раньше вечера, по умолчанию утро.
func PeriodOf(token string) Period {
	lower := strings.ToLower(token)
	hour, hasHour := hourOf(lower)
	pm := strings.HasSuffix(lower, "pm")

	switch {
	case strings.Contains(lower, "afternoon"), pm && hour < 18:
		return Afternoon
	case strings.Contains(lower, "evening"), hasHour && hour >= 18:
		return Evening
	default:
		return Morning
	}
}

// hourOf возвращает час в 24-часовом формате.
func hourOf(lower string) (int, bool) {
	digits := hourPattern.FindString(lower)
	if digits == "" {
		return 0, false
	}

	hour, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.HasSuffix(lower, "pm") && hour < 12:
		hour += 12
	case strings.HasSuffix(lower, "am") && hour == 12:
		hour = 0
	}
	return hour, true
}
